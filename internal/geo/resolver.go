package geo

import (
	"net"

	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"
)

// Resolver maps client IP addresses to country and city using a local
// MaxMind database. A Resolver with no database is valid and resolves
// every address to nothing, so callers never need a nil check.
type Resolver struct {
	reader *geoip2.Reader
	log    *zap.Logger
}

// NewResolver opens the GeoIP database at path. An empty path yields a
// disabled resolver rather than an error.
func NewResolver(path string, log *zap.Logger) (*Resolver, error) {
	if path == "" {
		log.Info("geoip database not configured, location enrichment disabled")
		return &Resolver{log: log}, nil
	}

	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}

	log.Info("geoip database loaded", zap.String("path", path))
	return &Resolver{reader: reader, log: log}, nil
}

// Resolve returns the country and city for ip, or nil pointers when the
// resolver is disabled, the address is unparseable, or the database has no
// record for it.
func (r *Resolver) Resolve(ipStr string) (country, city *string) {
	if r.reader == nil || ipStr == "" {
		return nil, nil
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return nil, nil
	}

	record, err := r.reader.City(ip)
	if err != nil {
		r.log.Debug("geoip lookup failed", zap.String("ip", ipStr), zap.Error(err))
		return nil, nil
	}

	if name, ok := record.Country.Names["en"]; ok && name != "" {
		country = &name
	}
	if name, ok := record.City.Names["en"]; ok && name != "" {
		city = &name
	}
	return country, city
}

// Close releases the underlying database. Safe on a disabled resolver.
func (r *Resolver) Close() error {
	if r.reader == nil {
		return nil
	}
	return r.reader.Close()
}
