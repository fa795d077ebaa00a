package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const minimal = `
environment: test
twelvedata:
  api_key: k
`

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)
	require.Equal(t, 8080, c.Server.Port)
	require.Equal(t, time.Second, c.TwelveData.RequestInterval)
	require.Equal(t, "https://api.twelvedata.com", c.TwelveData.BaseURL)
	require.Equal(t, "memory", c.ChartCache.Backend)
	require.Equal(t, "martrade.quotes", c.Kafka.Topic)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"missing environment": "twelvedata:\n  api_key: k\n",
		"missing api key":     "environment: test\n",
		"futures without exchange": minimal + `  futures:
    BZ:
      symbol: BZ
`,
		"fallback without last": minimal + `  futures:
    BZ:
      exchange: NYMEX
      fallback:
        percent_change: "0.5"
`,
		"bad cache backend": minimal + "chart_cache:\n  backend: disk\n",
		"kafka without brokers": minimal + "kafka:\n  enabled: true\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestParseFuturesFallback(t *testing.T) {
	c, err := Parse([]byte(minimal + `  futures:
    BZ:
      exchange: NYMEX
      name: Brent (BZ)
      fallback:
        last: "82.40"
        percent_change: "-0.35"
        volume: 310000
`))
	require.NoError(t, err)
	fb := c.TwelveData.Futures["BZ"].Fallback
	require.NotNil(t, fb)
	require.Equal(t, "82.40", fb.Last)
	require.Equal(t, "-0.35", fb.PercentChange)
	require.EqualValues(t, 310000, fb.Volume)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: test\n"), 0o600))

	t.Setenv("TWELVEDATA_API_KEY", "from-env")
	t.Setenv("SYMBOLS", "CL,NG")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", c.TwelveData.APIKey)
	require.Equal(t, []string{"CL", "NG"}, c.TwelveData.Symbols)
	require.Equal(t, "debug", c.Logger.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
