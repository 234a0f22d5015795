package configuration

import (
	"log/slog"
	"strings"
	"time"

	"github.com/adampresley/configinator"
)

type Config struct {
	AwsEndpointUrl        string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion             string `flag:"awsregion" env:"AWS_REGION" default:"us-east-1" description:"AWS region"`
	AwsAccessKeyId        string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey    string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket             string `flag:"awsbucket" env:"AWS_BUCKET" default:"couplestory" description:"S3 bucket for photos and music"`
	CacheTTLMinutes       int    `flag:"cachettl" env:"CACHE_TTL_MINUTES" default:"5" description:"Minutes the couple config stays cached"`
	CleanupExpirationDays int    `flag:"cleanupdays" env:"CLEANUP_EXPIRATION_DAYS" default:"7" description:"Days before an unreferenced upload is removed"`
	CookieSecret          string `flag:"cookiesecret" env:"COOKIE_SECRET" default:"password" description:"Secret for encoding cookies"`
	DBDriver              string `flag:"dbdriver" env:"DB_DRIVER" default:"sqlite" description:"Database driver. Valid values are 'sqlite' and 'pgx'"`
	DSN                   string `flag:"dsn" env:"DSN" default:"file:./data/couplestory.db" description:"Data source name"`
	Host                  string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	LogFormat             string `flag:"logformat" env:"LOG_FORMAT" default:"console" description:"Log output format. Valid values are 'console' and 'json'"`
	LogLevel              string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxThumbnailWorkers   int    `flag:"mtw" env:"MAX_THUMBNAIL_WORKERS" default:"10" description:"Maximum number of concurrent thumbnail workers"`
	SentryDSN             string `flag:"sentrydsn" env:"SENTRY_DSN" default:"" description:"Sentry DSN. Errors are reported when set"`
	StorageEnabled        bool   `flag:"storage" env:"STORAGE_ENABLED" default:"true" description:"Store uploads in S3. When false uploads return placeholder URLs"`
	TimeZone              string `flag:"tz" env:"TIME_ZONE" default:"Local" description:"Time zone the relationship start date is read in"`
	TrustedProxies        string `flag:"trustedproxies" env:"TRUSTED_PROXIES" default:"" description:"Comma separated proxy addresses or CIDR ranges whose X-Forwarded-For is believed"`
	UploadBurst           int    `flag:"uploadburst" env:"UPLOAD_BURST" default:"5" description:"Uploads a client may send in a row"`
	UploadsPerMinute      int    `flag:"uploadrate" env:"UPLOADS_PER_MINUTE" default:"20" description:"Sustained uploads per minute per client"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}

func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLMinutes <= 0 {
		return 5 * time.Minute
	}

	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

/*
Location resolves TimeZone, falling back to the local zone when it is not
a known zone name.
*/
func (c Config) Location() *time.Location {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local
	}

	loc, err := time.LoadLocation(c.TimeZone)

	if err != nil {
		slog.Error("unknown time zone, using local time", "timeZone", c.TimeZone, "error", err)
		return time.Local
	}

	return loc
}

func (c Config) TrustedProxyList() []string {
	if strings.TrimSpace(c.TrustedProxies) == "" {
		return nil
	}

	return strings.Split(c.TrustedProxies, ",")
}
