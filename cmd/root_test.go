package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/notificator/internal/build"
	"github.com/shaharia-lab/notificator/internal/config"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd(&config.AppConfig{Port: 8990})

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "dispatch", "version", "update"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("no-color"))
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd(&config.AppConfig{})
	root.SetArgs([]string{"--no-color", "version"})
	root.SetOut(&out)

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "notificator "+build.Version)
}

func TestServeCmd_FlagDefaultsFromConfig(t *testing.T) {
	cmd := NewServeCmd(&config.AppConfig{Port: 9100, DispatchCron: "*/5 * * * *"})

	port := cmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "9100", port.DefValue)

	cron := cmd.Flags().Lookup("cron")
	require.NotNil(t, cron)
	assert.Equal(t, "*/5 * * * *", cron.DefValue)
}
