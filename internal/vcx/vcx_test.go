package vcx

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcxkit/agent/internal/domain"
	"github.com/vcxkit/agent/internal/native"
	"github.com/vcxkit/agent/internal/native/nativetest"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func coreOps(t *testing.T, provision native.Callable) map[string]native.Callable {
	t.Helper()
	return map[string]native.Callable{
		"vcx_set_default_logger": nativetest.OK,
		"vcx_provision_agent":    provision,
		"vcx_init_with_config":   nativetest.OK,
		"vcx_shutdown":           nativetest.OK,
	}
}

func TestOpen_VerifiesEntryPointSet(t *testing.T) {
	loader := nativetest.NewFakeLoader()
	loader.Register(CoreModule, map[string]native.Callable{
		"vcx_set_default_logger": nativetest.OK,
		// vcx_provision_agent deliberately missing
	})

	_, err := Open(loader, discard())

	var bindErr *native.SymbolBindingError
	require.ErrorAs(t, err, &bindErr)
	assert.Equal(t, CoreModule, bindErr.Module)
}

func TestSetDefaultLogger_PassesLevel(t *testing.T) {
	loader := nativetest.NewFakeLoader()
	var got string
	ops := coreOps(t, nativetest.OK)
	ops["vcx_set_default_logger"] = func(arg string) (string, error) {
		got = arg
		return "", nil
	}
	loader.Register(CoreModule, ops)

	rt, err := Open(loader, discard())
	require.NoError(t, err)
	require.NoError(t, rt.SetDefaultLogger(domain.LogWarn))
	assert.Equal(t, "warn", got)
}

func TestProvisionAgent_ReturnsAgencyResponseUnmodified(t *testing.T) {
	loader := nativetest.NewFakeLoader()
	var gotPayload string
	loader.Register(CoreModule, coreOps(t, func(arg string) (string, error) {
		gotPayload = arg
		return `{"agentDid":"V4SGRU86Z58d6TV7PBUe6f","agentVk":"GJ1SzoWza..."}`, nil
	}))

	rt, err := Open(loader, discard())
	require.NoError(t, err)

	cfg := domain.ProvisionConfig{
		"agencyUrl": "http://localhost:9000",
		"agentSeed": "000000000000000000000000000000001",
	}
	agent, err := rt.ProvisionAgent(cfg)
	require.NoError(t, err)

	assert.Equal(t, domain.AgentConfig{
		"agentDid": "V4SGRU86Z58d6TV7PBUe6f",
		"agentVk":  "GJ1SzoWza...",
	}, agent)

	var sent domain.ProvisionConfig
	require.NoError(t, json.Unmarshal([]byte(gotPayload), &sent))
	assert.Equal(t, cfg, sent)
}

func TestProvisionAgent_NativeFailureIsProvisioningError(t *testing.T) {
	loader := nativetest.NewFakeLoader()
	loader.Register(CoreModule, coreOps(t, nativetest.Fail(&native.CallError{
		Symbol: "vcx_provision_agent",
		Code:   1063,
	})))

	rt, err := Open(loader, discard())
	require.NoError(t, err)

	_, err = rt.ProvisionAgent(domain.ProvisionConfig{"agencyUrl": "http://localhost:9000"})

	var provErr *ProvisioningError
	require.ErrorAs(t, err, &provErr)

	var callErr *native.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, uint32(1063), callErr.Code)
}

func TestProvisionAgent_MalformedResponseKeepsRawDetail(t *testing.T) {
	loader := nativetest.NewFakeLoader()
	loader.Register(CoreModule, coreOps(t, func(string) (string, error) {
		return "not json", nil
	}))

	rt, err := Open(loader, discard())
	require.NoError(t, err)

	_, err = rt.ProvisionAgent(domain.ProvisionConfig{})

	var provErr *ProvisioningError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "not json", provErr.Detail)
}

func TestInitWithConfigAndShutdown(t *testing.T) {
	loader := nativetest.NewFakeLoader()
	var initArg string
	ops := coreOps(t, nativetest.OK)
	ops["vcx_init_with_config"] = func(arg string) (string, error) {
		initArg = arg
		return "", nil
	}
	loader.Register(CoreModule, ops)

	rt, err := Open(loader, discard())
	require.NoError(t, err)

	require.NoError(t, rt.InitWithConfig(domain.AgentConfig{"agentDid": "V4SG"}))
	assert.JSONEq(t, `{"agentDid":"V4SG"}`, initArg)

	require.NoError(t, rt.Shutdown())
}
