package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/thesaurus/cmd/thesaurus/commands"
	"go.trai.ch/thesaurus/internal/app"
	"go.trai.ch/thesaurus/internal/build"
)

type mockApp struct {
	serveFunc  func(ctx context.Context, opts app.ServeOptions) error
	reloadFunc func(ctx context.Context, opts app.ReloadOptions) error
	lookupFunc func(ctx context.Context, opts app.LookupOptions) error
	checkFunc  func(ctx context.Context, opts app.CheckOptions) error
}

func (m *mockApp) Serve(ctx context.Context, opts app.ServeOptions) error {
	if m.serveFunc != nil {
		return m.serveFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Reload(ctx context.Context, opts app.ReloadOptions) error {
	if m.reloadFunc != nil {
		return m.reloadFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Lookup(ctx context.Context, opts app.LookupOptions) error {
	if m.lookupFunc != nil {
		return m.lookupFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) Check(ctx context.Context, opts app.CheckOptions) error {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, opts)
	}
	return nil
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Serve(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.ServeOptions
		mock := &mockApp{
			serveFunc: func(_ context.Context, opts app.ServeOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "serve", "--config", "prod.yaml", "--addr", ":9000", "--json", "--trace")
		require.NoError(t, err)
		assert.Equal(t, app.ServeOptions{ConfigPath: "prod.yaml", Addr: ":9000", JSON: true, Trace: true}, captured)
	})

	t.Run("returns error on serve failure", func(t *testing.T) {
		mock := &mockApp{
			serveFunc: func(context.Context, app.ServeOptions) error {
				return errors.New("address already in use")
			},
		}

		_, err := execute(t, mock, "serve")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "address already in use")
	})

	t.Run("rejects arguments", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "serve", "extra")
		require.Error(t, err)
	})
}

func TestCommands_Reload(t *testing.T) {
	var captured app.ReloadOptions
	mock := &mockApp{
		reloadFunc: func(_ context.Context, opts app.ReloadOptions) error {
			captured = opts
			return nil
		},
	}

	_, err := execute(t, mock, "reload", "-c", "x.yaml", "--source", "products", "-s", "brands", "--force")
	require.NoError(t, err)
	assert.Equal(t, "x.yaml", captured.ConfigPath)
	assert.Equal(t, []string{"products", "brands"}, captured.Sources)
	assert.True(t, captured.Force)
}

func TestCommands_Lookup(t *testing.T) {
	t.Run("passes terms and source", func(t *testing.T) {
		var captured app.LookupOptions
		mock := &mockApp{
			lookupFunc: func(_ context.Context, opts app.LookupOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "lookup", "--source", "products", "tv", "laptop")
		require.NoError(t, err)
		assert.Equal(t, "products", captured.Source)
		assert.Equal(t, []string{"tv", "laptop"}, captured.Terms)
		assert.Empty(t, captured.ConfigPath)
	})

	t.Run("requires a source", func(t *testing.T) {
		mock := &mockApp{
			lookupFunc: func(context.Context, app.LookupOptions) error {
				panic("should not be called")
			},
		}

		_, err := execute(t, mock, "lookup", "tv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source")
	})

	t.Run("requires a term", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "lookup", "--source", "products")
		require.Error(t, err)
	})
}

func TestCommands_Check(t *testing.T) {
	var captured app.CheckOptions
	mock := &mockApp{
		checkFunc: func(_ context.Context, opts app.CheckOptions) error {
			captured = opts
			return errors.New("synonym check failed")
		},
	}

	_, err := execute(t, mock, "check", "--config", "rules.yaml")
	require.Error(t, err)
	assert.Equal(t, "rules.yaml", captured.ConfigPath)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "thesaurus version "+build.Version)
	assert.Contains(t, out, build.Commit)
}
