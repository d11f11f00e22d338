package consoleurl

import (
	"errors"
	"testing"

	"github.com/mfulz/gns3launch/internal/launcherr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name    string
		raw     string
		scheme  Scheme
		host    string
		port    string
		path    string
		params  map[string]string
		wantErr bool
	}{
		{
			name:   "telnet with port",
			raw:    "gns3+telnet://localhost:6000",
			scheme: SchemeTelnet,
			host:   "localhost",
			port:   "6000",
			params: map[string]string{},
		},
		{
			name:   "vnc with params",
			raw:    "gns3+vnc://192.168.1.10:5901?name=R1&project_id=1234&node_id=5678",
			scheme: SchemeVNC,
			host:   "192.168.1.10",
			port:   "5901",
			params: map[string]string{"name": "R1", "project_id": "1234", "node_id": "5678"},
		},
		{
			name:   "no port",
			raw:    "gns3+spice://localhost",
			scheme: SchemeSpice,
			host:   "localhost",
			params: map[string]string{},
		},
		{
			name:   "path is stripped",
			raw:    "gns3+pcap://controller:3080/some/path?project_id=p&link_id=l",
			scheme: SchemePcap,
			host:   "controller",
			port:   "3080",
			path:   "some/path",
			params: map[string]string{"project_id": "p", "link_id": "l"},
		},
		{
			name:   "blank value kept",
			raw:    "gns3+telnet://localhost:5000?name=",
			scheme: SchemeTelnet,
			host:   "localhost",
			port:   "5000",
			params: map[string]string{"name": ""},
		},
		{
			name:   "first value wins",
			raw:    "gns3+telnet://localhost:5000?name=first&name=second",
			scheme: SchemeTelnet,
			host:   "localhost",
			port:   "5000",
			params: map[string]string{"name": "first"},
		},
		{
			name:   "non ascii preserved",
			raw:    "gns3+telnet://localhost:6000?name=áÆÑß",
			scheme: SchemeTelnet,
			host:   "localhost",
			port:   "6000",
			params: map[string]string{"name": "áÆÑß"},
		},
		{
			name:   "percent and plus decoding",
			raw:    "gns3+telnet://localhost:6000?name=my+router%21",
			scheme: SchemeTelnet,
			host:   "localhost",
			port:   "6000",
			params: map[string]string{"name": "my router!"},
		},
		{name: "port out of range", raw: "gns3+telnet://localhost:99999", wantErr: true},
		{name: "missing scheme", raw: "localhost:6000", wantErr: true},
		{name: "incomplete url", raw: "gns3+telnet", wantErr: true},
		{name: "unsupported scheme", raw: "gns3+ssh://localhost:22", wantErr: true},
		{name: "strict query", raw: "gns3+telnet://localhost:6000?name", wantErr: true},
		{name: "empty query field", raw: "gns3+telnet://localhost:6000?a=1&&b=2", wantErr: true},
		{name: "bad escape", raw: "gns3+telnet://localhost:6000?name=%zz", wantErr: true},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			u, err := Parse(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, launcherr.ErrParse))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.scheme, u.Scheme)
			assert.Equal(t, tc.host, u.Host)
			assert.Equal(t, tc.port, u.PortString())
			assert.Equal(t, tc.path, u.Path)
			assert.Equal(t, tc.params, u.Params)
		})
	}
}

func TestParseUnspecifiedHosts(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"gns3+telnet://:5000",
		"gns3+telnet://0.0.0.0:5000",
		"gns3+telnet://[::]:5000",
		"gns3+telnet://[0:0:0:0:0:0:0:0]:5000",
	} {
		u, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "localhost", u.Host, raw)
		assert.Equal(t, "5000", u.PortString(), raw)
	}
}

func TestParseRoundTripsURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"gns3+telnet://localhost:6000",
		"gns3+vnc://localhost:5901?name=R1&project_id=1234&node_id=5678",
		"gns3+spice://10.0.0.1:5930?name=PC1",
		"gns3+pcap://localhost:3080?project_id=a&link_id=b",
	} {
		u, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, u.String())
	}
}

func TestParseScheme(t *testing.T) {
	t.Parallel()

	s, ok := ParseScheme("vnc")
	assert.True(t, ok)
	assert.Equal(t, SchemeVNC, s)

	s, ok = ParseScheme("gns3+pcap")
	assert.True(t, ok)
	assert.Equal(t, "pcap", s.Protocol())

	_, ok = ParseScheme("ssh")
	assert.False(t, ok)
}
