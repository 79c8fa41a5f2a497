package pkgconfig

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var _ Config = (*Viper)(nil)

type Viper struct {
	v *viper.Viper
}

// NewViper reads the file at path (format taken from its extension) and lets
// environment variables override any key, e.g. MODULES_COUNTRY_STORE_DRIVER
// for modules.country.store.driver. Later edits to the file are picked up.
func NewViper(path string) (*Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config file changed", "file", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

func (c *Viper) GetInt(key string) int64 {
	return c.v.GetInt64(key)
}

func (c *Viper) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Viper) GetString(key string) string {
	return c.v.GetString(key)
}

// GetDuration accepts Go duration strings such as "200ms" or "1m".
func (c *Viper) GetDuration(key string) time.Duration {
	return c.v.GetDuration(key)
}

func (c *Viper) Close() error {
	return nil
}
