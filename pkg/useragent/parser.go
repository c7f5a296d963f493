package useragent

import (
	"fmt"
	"os"
	"sync"

	"github.com/ua-parser/uap-go/uaparser"
	"go.uber.org/zap"
)

// Parser wraps the uap-core User-Agent parser. It supplies the optional
// browser/OS columns on click events; device classification stays with
// ClassifyDevice and does not depend on the regex database being present.
type Parser struct {
	parser *uaparser.Parser
	log    *zap.Logger
}

// BrowserInfo represents the enrichment extracted from a User-Agent string.
type BrowserInfo struct {
	Browser string
	OS      string
}

var (
	globalParser *Parser
	once         sync.Once
)

// NewParser creates a parser from a uap-core regexes.yaml file.
func NewParser(regexFilePath string, log *zap.Logger) (*Parser, error) {
	regexBytes, err := os.ReadFile(regexFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read regexes file: %w", err)
	}

	parser, err := uaparser.NewFromBytes(regexBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create User-Agent parser: %w", err)
	}

	log.Info("User-Agent parser initialized", zap.String("regexes_file", regexFilePath))

	return &Parser{parser: parser, log: log}, nil
}

// InitGlobalParser initializes the process-wide parser once. Callers that
// cannot provide a regexes file simply skip enrichment.
func InitGlobalParser(regexFilePath string, log *zap.Logger) error {
	var initErr error
	once.Do(func() {
		parser, err := NewParser(regexFilePath, log)
		if err != nil {
			initErr = err
			return
		}
		globalParser = parser
	})
	return initErr
}

// GetGlobalParser returns the global parser, or nil when enrichment is
// unavailable.
func GetGlobalParser() *Parser {
	return globalParser
}

// Parse extracts browser and OS families from a User-Agent string.
// Unrecognized families come back empty so callers can leave the nullable
// click columns unset.
func (p *Parser) Parse(userAgent string) BrowserInfo {
	client := p.parser.Parse(userAgent)

	return BrowserInfo{
		Browser: normalizeFamily(client.UserAgent.Family),
		OS:      normalizeFamily(client.Os.Family),
	}
}

// normalizeFamily collapses uap-core's "no match" family to the empty string.
func normalizeFamily(family string) string {
	if family == "Other" {
		return ""
	}
	return family
}
