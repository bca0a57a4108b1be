package token

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipLines(t *testing.T, lines []string) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	for _, line := range lines {
		_, err := w.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// createTestBatchFile creates a gzipped token batch file.
func createTestBatchFile(t *testing.T, filename string, codes []string) string {
	filePath := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(filePath, gzipLines(t, codes), 0o600))
	return filePath
}

func TestFileLoader_Load_Success(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := createTestBatchFile(t, "batch.gz", []string{"ABC12", "XYZ99", "QQQ00"})

	set, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Equal(t, 3, set.Size())
	assert.Equal(t, []string{"ABC12", "XYZ99", "QQQ00"}, set.Codes())
}

func TestFileLoader_Load_NormalisesAndSkipsBlankLines(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())
	filePath := createTestBatchFile(t, "batch.gz", []string{" abc12 ", "", "   ", "ABC12", "zz999"})

	set, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Equal(t, 2, set.Size())
	assert.True(t, set.Contains("ABC12"))
	assert.True(t, set.Contains("ZZ999"))
}

func TestFileLoader_Load_Errors(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "nope.gz"))
		assert.Error(t, err)
	})

	t.Run("not gzip", func(t *testing.T) {
		filePath := filepath.Join(t.TempDir(), "plain.gz")
		require.NoError(t, os.WriteFile(filePath, []byte("ABC12\n"), 0o600))

		_, err := loader.Load(context.Background(), filePath)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		filePath := createTestBatchFile(t, "batch.gz", []string{"ABC12"})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := loader.Load(ctx, filePath)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type fakeObjectGetter struct {
	objects map[string][]byte
	keys    []string
}

func (f *fakeObjectGetter) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(params.Key)
	f.keys = append(f.keys, key)
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Loader_Load(t *testing.T) {
	client := &fakeObjectGetter{objects: map[string][]byte{
		"tokens/batch.gz": gzipLines(t, []string{"S3AAA", "S3BBB"}),
	}}
	loader := NewS3Loader(client, "bucket", zerolog.Nop())

	set, err := loader.Load(context.Background(), "tokens/batch.gz")
	require.NoError(t, err)
	assert.Equal(t, []string{"S3AAA", "S3BBB"}, set.Codes())

	_, err = loader.Load(context.Background(), "tokens/missing.gz")
	assert.Error(t, err)
}

// stubLoader is a Loader backed by a function.
type stubLoader struct {
	loadFunc func(ctx context.Context, path string) (CodeSet, error)
}

func (s *stubLoader) Load(ctx context.Context, path string) (CodeSet, error) {
	return s.loadFunc(ctx, path)
}

func TestFallbackLoader(t *testing.T) {
	s3Set := NewCodeSet("S3AAA")
	localSet := NewCodeSet("LOCAL")

	tests := []struct {
		name      string
		s3Loader  Loader
		s3Enabled bool
		expected  string
	}{
		{
			name: "S3 success",
			s3Loader: &stubLoader{loadFunc: func(_ context.Context, path string) (CodeSet, error) {
				assert.Equal(t, "tokens/batch.gz", path)
				return s3Set, nil
			}},
			s3Enabled: true,
			expected:  "S3AAA",
		},
		{
			name: "S3 failure falls back to local",
			s3Loader: &stubLoader{loadFunc: func(context.Context, string) (CodeSet, error) {
				return nil, errors.New("S3 connection failed")
			}},
			s3Enabled: true,
			expected:  "LOCAL",
		},
		{
			name: "S3 disabled",
			s3Loader: &stubLoader{loadFunc: func(context.Context, string) (CodeSet, error) {
				t.Error("S3 loader should not be called when S3 is disabled")
				return nil, errors.New("unexpected")
			}},
			s3Enabled: false,
			expected:  "LOCAL",
		},
		{
			name:      "nil S3 loader",
			s3Loader:  nil,
			s3Enabled: true,
			expected:  "LOCAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileLoader := &stubLoader{loadFunc: func(_ context.Context, path string) (CodeSet, error) {
				assert.Equal(t, "batch.gz", path, "local path should not carry the S3 prefix")
				return localSet, nil
			}}
			loader := NewFallbackLoader(tt.s3Loader, fileLoader, "tokens/", tt.s3Enabled, zerolog.Nop())

			set, err := loader.Load(context.Background(), "batch.gz")

			require.NoError(t, err)
			assert.True(t, set.Contains(tt.expected))
		})
	}
}
