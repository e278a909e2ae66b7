package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xkilldash9x/matchscrape/internal/browser/static"
	"github.com/xkilldash9x/matchscrape/internal/config"
)

func staticConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.SetBrowserEngine(config.EngineStatic)
	return cfg
}

func TestOpenPage(t *testing.T) {
	t.Run("static engine", func(t *testing.T) {
		page, err := OpenPage(context.Background(), staticConfig(), zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &static.Page{}, page)
		assert.NoError(t, page.Close(context.Background()))
	})

	t.Run("unknown engine", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.SetBrowserEngine("lynx")
		page, err := OpenPage(context.Background(), cfg, zap.NewNop())
		assert.Nil(t, page)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported browser engine: lynx")
	})
}

func TestCreate(t *testing.T) {
	factory := NewComponentFactory()

	t.Run("without a database", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		components, err := factory.Create(context.Background(), staticConfig(), zap.New(core))
		require.NoError(t, err)

		assert.NotNil(t, components.Page)
		assert.NotNil(t, components.Pager)
		assert.Nil(t, components.Store)

		components.Shutdown()
		components.Shutdown()
		assert.Equal(t, 1, logs.FilterMessage("Closing browser.").Len(), "shutdown runs once")
	})

	t.Run("bad database url shuts down the browser", func(t *testing.T) {
		cfg := staticConfig()
		cfg.DatabaseCfg.URL = "postgres://user@localhost:notaport/db"

		core, logs := observer.New(zap.DebugLevel)
		components, err := factory.Create(context.Background(), cfg, zap.New(core))
		assert.Nil(t, components)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize database store")
		assert.Equal(t, 1, logs.FilterMessage("Closing browser.").Len())
	})

	t.Run("engine start failure", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.SetBrowserEngine("lynx")

		components, err := factory.Create(context.Background(), cfg, zap.NewNop())
		assert.Nil(t, components)
		assert.ErrorContains(t, err, "failed to start browser engine")
	})
}

func TestComponentsShutdown_Partial(t *testing.T) {
	var c Components
	assert.NotPanics(t, c.Shutdown)

	closed := 0
	c2 := Components{closeStore: func() { closed++ }}
	c2.Shutdown()
	c2.Shutdown()
	assert.Equal(t, 1, closed)
}
