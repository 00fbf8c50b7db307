package persona

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/juntosfibro/fibrochat/internal/models"
	"go.uber.org/zap"
)

// DecodeDataURI parses a "data:<mimeType>;base64,<payload>" string into an
// attachment: the MIME type sits between "data:" and the first ";", the
// payload after the first ",".
func DecodeDataURI(uri string) (models.Attachment, error) {
	if !strings.HasPrefix(uri, "data:") {
		return models.Attachment{}, fmt.Errorf("missing data: prefix")
	}

	semi := strings.Index(uri, ";")
	comma := strings.Index(uri, ",")
	if semi < 0 || comma < 0 || semi > comma {
		return models.Attachment{}, fmt.Errorf("malformed data URI")
	}

	mimeType := uri[len("data:"):semi]
	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return models.Attachment{}, fmt.Errorf("decode base64 payload: %w", err)
	}

	return models.Attachment{MimeType: mimeType, Data: data}, nil
}

// DecodedSize reports the byte size a data URI's payload decodes to,
// computed from the encoded length without allocating a decode buffer.
// Returns 0 when the string has no payload separator.
func DecodedSize(uri string) int {
	comma := strings.Index(uri, ",")
	if comma < 0 {
		return 0
	}
	payload := uri[comma+1:]
	size := len(payload) / 4 * 3
	switch {
	case strings.HasSuffix(payload, "=="):
		size -= 2
	case strings.HasSuffix(payload, "="):
		size--
	}
	return size
}

// DecodeAttachments decodes a batch of data-URI strings. Malformed entries
// are dropped with a warning so the turn proceeds with the rest.
func DecodeAttachments(uris []string, logger *zap.Logger) []models.Attachment {
	attachments := make([]models.Attachment, 0, len(uris))
	for i, uri := range uris {
		attachment, err := DecodeDataURI(uri)
		if err != nil {
			logger.Warn("Dropping malformed attachment",
				zap.Error(err),
				zap.Int("index", i))
			continue
		}
		attachments = append(attachments, attachment)
	}
	return attachments
}
