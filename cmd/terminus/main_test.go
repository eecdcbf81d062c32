package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/qdgo/router"
	"github.com/stretchr/testify/require"
)

const sourceTOML = `
type = "source"
address = "queue/a"
durability = "configuration"
expiry_policy = "never"
timeout = 30
dynamic = true
distribution_mode = "move"
capabilities = ["shared", "global"]
outcomes = ["amqp:accepted:list"]

[properties]
address = "amqp:replyto:123"

[filter.selector]
descriptor = "apache.org:selector-filter:string"
value = "color = 'red'"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terminus.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	defer leaktest.Check(t)()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestLoadWireTerminus(t *testing.T) {
	w, err := loadWireTerminus(writeConfig(t, sourceTOML))
	require.NoError(t, err)

	require.Equal(t, router.TerminusSource, w.Type())
	require.Equal(t, "queue/a", w.Address())
	require.Equal(t, router.DurabilityConfiguration, w.Durability())
	require.Equal(t, router.ExpiryNever, w.ExpiryPolicy())
	require.EqualValues(t, 30, w.Timeout())
	require.True(t, w.IsDynamic())
	require.Equal(t, router.DistributionMove, w.DistributionMode())
	require.Equal(t, ":shared :global", w.Capabilities().String())
	require.Equal(t, ":amqp:accepted:list", w.Outcomes().String())
	require.Equal(t, `{:address="amqp:replyto:123"}`, w.Properties().String())
	require.Equal(t, `{:selector=@:apache.org:selector-filter:string "color = 'red'"}`, w.Filter().String())
}

func TestLoadWireTerminusNumericFilterDescriptor(t *testing.T) {
	w, err := loadWireTerminus(writeConfig(t, `
[filter.subject]
descriptor = "0x0000468C00000001"
value = "news.*"
`))
	require.NoError(t, err)
	require.Equal(t, `{:subject=@77567109365761 "news.*"}`, w.Filter().String())
}

func TestLoadWireTerminusDefaults(t *testing.T) {
	w, err := loadWireTerminus(writeConfig(t, `address = "q"`))
	require.NoError(t, err)

	require.Equal(t, router.TerminusSource, w.Type())
	require.Equal(t, router.DurabilityNone, w.Durability())
	require.Equal(t, router.ExpirySessionEnd, w.ExpiryPolicy())
	require.False(t, w.IsDynamic())
	require.True(t, w.Capabilities().Empty())
}

func TestLoadWireTerminusErrors(t *testing.T) {
	for label, content := range map[string]string{
		"type":              `type = "queue"`,
		"durability":        `durability = "forever"`,
		"expiry policy":     `expiry_policy = "sometime"`,
		"distribution mode": `distribution_mode = "fanout"`,
		"unknown key":       `adress = "q"`,
		"filter descriptor": "[filter.selector]\nvalue = \"x\"",
		"syntax":            `address = `,
	} {
		t.Run(label, func(t *testing.T) {
			_, err := loadWireTerminus(writeConfig(t, content))
			require.Error(t, err)
		})
	}

	_, err := loadWireTerminus(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestInspect(t *testing.T) {
	path := writeConfig(t, sourceTOML)
	out, _, err := execute(t, "inspect", path, "--capability", "shared", "-c", "global")
	require.NoError(t, err)

	require.Equal(t, strings.Join([]string{
		"type: source",
		"address: queue/a",
		"dynamic: true",
		"durability: configuration",
		"expiry-policy: never",
		"timeout: 30",
		"distribution-mode: move",
		`properties: {:address="amqp:replyto:123"}`,
		`filter: {:selector=@:apache.org:selector-filter:string "color = 'red'"}`,
		"outcomes: :amqp:accepted:list",
		"capabilities: :shared :global",
		"dynamic-node-address: amqp:replyto:123",
		"has-capability shared: true",
		"has-capability global: false",
		"",
	}, "\n"), out)
}

func TestInspectAnonymous(t *testing.T) {
	out, _, err := execute(t, "inspect", writeConfig(t, `type = "target"`))
	require.NoError(t, err)
	require.Contains(t, out, "type: target\n")
	require.Contains(t, out, "address: <anonymous>\n")
	require.NotContains(t, out, "dynamic-node-address")
}

func TestEncodeDecode(t *testing.T) {
	encoded, _, err := execute(t, "encode", writeConfig(t, sourceTOML))
	require.NoError(t, err)
	encoded = strings.TrimSpace(encoded)
	require.True(t, strings.HasPrefix(encoded, "005328"), "source descriptor, got %s", encoded)

	decoded, _, err := execute(t, "decode", encoded, "-c", "shared")
	require.NoError(t, err)

	inspected, _, err := execute(t, "inspect", writeConfig(t, sourceTOML), "-c", "shared")
	require.NoError(t, err)
	require.Equal(t, inspected, decoded)
}

func TestEncodeCoordinator(t *testing.T) {
	out, _, err := execute(t, "encode", writeConfig(t, "type = \"coordinator\"\ncapabilities = [\"amqp:local-transactions\"]\n"))
	require.NoError(t, err)

	// 00 53 30 c0 1a 01 a3 17 "amqp:local-transactions"
	require.Equal(t, "005330c01a01a317"+hex.EncodeToString([]byte("amqp:local-transactions"))+"\n", out)
}

func TestDecodeErrors(t *testing.T) {
	_, _, err := execute(t, "decode", "zz")
	require.Error(t, err)

	_, _, err = execute(t, "decode", "0053")
	require.Error(t, err)

	_, _, err = execute(t, "decode")
	require.Error(t, err)
}

func TestVerboseLogs(t *testing.T) {
	_, stderr, err := execute(t, "--verbose", "encode", writeConfig(t, `address = "q"`))
	require.NoError(t, err)
	require.Contains(t, stderr, "encoded terminus")

	_, stderr, err = execute(t, "encode", writeConfig(t, `address = "q"`))
	require.NoError(t, err)
	require.NotContains(t, stderr, "encoded terminus")
}
