package corpus

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"text2phenotype.com/postag/logger"
)

const s3Scheme = "s3"

// ObjectDownloader fetches objects from S3; *s3client.Client implements it.
type ObjectDownloader interface {
	DownloadObject(bucket string, key string) ([]byte, error)
}

// Fetch returns the raw bytes of a corpus located either on the local filesystem or,
// for "s3://bucket/key" locations, in object storage.
func Fetch(location string, downloader ObjectDownloader) ([]byte, error) {
	fdlLogger := logger.NewLogger("Corpus").With().Str("location", location).Logger()

	if !strings.HasPrefix(location, s3Scheme+"://") {
		fdlLogger.Debug().Msg("Reading corpus from local file")
		return os.ReadFile(location)
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("bad corpus location %q: %w", location, err)
	}
	if downloader == nil {
		return nil, fmt.Errorf("corpus %q is in S3 but no S3 client is configured", location)
	}
	fdlLogger.Debug().Msg("Downloading corpus from S3")
	return downloader.DownloadObject(u.Host, strings.TrimPrefix(u.Path, "/"))
}
