package cli

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		cfg  config.Store
	}{
		{"memory", config.Store{Kind: config.StoreMemory}},
		{"file", config.Store{Kind: config.StoreFile, Path: t.TempDir()}},
		{"redis", config.Store{Kind: config.StoreRedis, Redis: config.Redis{Addr: mr.Addr(), Prefix: "test:"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeStore, err := OpenStore(tt.cfg)
			require.NoError(t, err)
			defer func() { assert.NoError(t, closeStore()) }()

			ctx := context.Background()
			require.NoError(t, store.Save(ctx, "s1", domain.NewSessionStatus("s1", "demo")))
			loaded, err := store.Load(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, "demo", loaded.Build)
		})
	}
}

func TestOpenStore_UnknownKind(t *testing.T) {
	_, closeStore, err := OpenStore(config.Store{Kind: "etcd"})
	assert.Error(t, err)
	assert.NotNil(t, closeStore)
}
