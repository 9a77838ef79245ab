package assets

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/assetbuild/internal/buildspec"
)

// compressible lists output extensions worth precompressing
var compressible = map[string]bool{
	".js":   true,
	".mjs":  true,
	".cjs":  true,
	".css":  true,
	".map":  true,
	".svg":  true,
	".json": true,
	".html": true,
	".txt":  true,
}

// encodingSuffix is the file suffix static file servers look for per encoding
var encodingSuffix = map[buildspec.Encoding]string{
	buildspec.EncodingGzip: ".gz",
	buildspec.EncodingZstd: ".zst",
}

// precompress writes an encoded sibling for every compressible output file
// and returns the total number of compressed bytes written.
func precompress(files []api.OutputFile, encodings []buildspec.Encoding) (int64, error) {
	if len(encodings) == 0 {
		return 0, nil
	}

	var total int64
	for _, file := range files {
		if !compressible[strings.ToLower(filepath.Ext(file.Path))] {
			continue
		}
		for _, enc := range encodings {
			data, err := encode(enc, file.Contents)
			if err != nil {
				return total, fmt.Errorf("failed to %s compress %s: %w", enc, file.Path, err)
			}

			path := file.Path + encodingSuffix[enc]
			if err := os.WriteFile(path, data, 0600); err != nil {
				return total, fmt.Errorf("failed to write %s: %w", path, err)
			}
			total += int64(len(data))

			log.Debug().
				Str("file", path).
				Int("original_bytes", len(file.Contents)).
				Int("compressed_bytes", len(data)).
				Msg("Precompressed file")
		}
	}
	return total, nil
}

func encode(enc buildspec.Encoding, data []byte) ([]byte, error) {
	switch enc {
	case buildspec.EncodingGzip:
		var buf bytes.Buffer
		w, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case buildspec.EncodingZstd:
		w, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, err
		}
		defer w.Close()
		return w.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("%w: %s", buildspec.ErrUnknownEncoding, enc)
	}
}
