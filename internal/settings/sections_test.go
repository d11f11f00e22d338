package settings

import (
	"testing"

	"github.com/mfulz/gns3launch/internal/command"
	"github.com/mfulz/gns3launch/internal/consoleurl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCommandsDefaults(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	commands, err := LoadCommands(store)
	require.NoError(t, err)
	assert.Equal(t, DefaultCommands(), commands)
	assert.NotEmpty(t, commands.ForScheme(consoleurl.SchemePcap))

	commands.Set(consoleurl.SchemeTelnet, "telnet {host} {port}")
	require.NoError(t, SaveCommands(store, commands))

	again, err := LoadCommands(store)
	require.NoError(t, err)
	assert.Equal(t, "telnet {host} {port}", again.ForScheme(consoleurl.SchemeTelnet))
	assert.Equal(t, commands.VNC, again.VNC)
}

func TestLoadController(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	writeBlob(t, path, map[string]any{
		"ControllerSettings": map[string]any{
			"protocol":                        "https",
			"username":                        "admin",
			"accept_invalid_ssl_certificates": "true",
		},
	})

	controller, err := LoadController(store)
	require.NoError(t, err)
	assert.Equal(t, Controller{Protocol: "https", Username: "admin", AcceptInvalidSSLCertificates: true}, controller)

	require.NoError(t, SaveToken(store, "jwt"))
	controller, err = LoadController(store)
	require.NoError(t, err)
	assert.Equal(t, "jwt", controller.Token)
	assert.Equal(t, "admin", controller.Username)
}

func TestControllerDefaults(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	controller, err := LoadController(store)
	require.NoError(t, err)
	assert.Equal(t, DefaultController(), controller)
}

func TestCustomCommands(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	custom, err := LoadCustomCommands(store)
	require.NoError(t, err)
	assert.Empty(t, custom.Telnet)

	custom.Telnet["Mine"] = "mytelnet {host} {port}"
	require.NoError(t, SaveCustomCommands(store, custom))

	custom, err = LoadCustomCommands(store)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Mine": "mytelnet {host} {port}"}, custom.ForScheme(consoleurl.SchemeTelnet))
	assert.Nil(t, custom.ForScheme(consoleurl.SchemePcap))
}

func TestPreconfiguredTemplatesAreWellFormed(t *testing.T) {
	t.Parallel()

	p := PreconfiguredCommands()
	for _, scheme := range consoleurl.Schemes {
		commands := p.ForScheme(scheme)
		require.NotEmpty(t, commands, scheme)
		for _, name := range SortedNames(commands) {
			_, err := command.Placeholders(commands[name])
			assert.NoError(t, err, "%s: %s", scheme, name)
		}
	}
}
