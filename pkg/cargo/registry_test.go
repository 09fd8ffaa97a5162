package cargo_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/farmaborsa/cargo/pkg/cargo"
	"github.com/farmaborsa/cargo/pkg/cargo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := cargo.NewRegistry()
	registry.Register(mock.New("aras"))
	registry.Register(mock.New("mng"))

	p, err := registry.Get("aras")
	require.NoError(t, err)
	assert.Equal(t, "aras", p.Name())

	assert.Equal(t, 2, registry.Count())
	assert.ElementsMatch(t, []string{"aras", "mng"}, registry.Names())
	assert.Len(t, registry.All(), 2)
}

func TestRegistry_GetUnknownCarrier(t *testing.T) {
	registry := cargo.NewRegistry()

	_, err := registry.Get("dhl")
	require.Error(t, err)
	assert.ErrorIs(t, err, cargo.ErrCarrierNotFound)
}

func TestRegistry_RegisterOverwritesSameName(t *testing.T) {
	registry := cargo.NewRegistry()
	first := mock.New("ptt")
	second := mock.New("ptt")
	registry.Register(first)
	registry.Register(second)

	assert.Equal(t, 1, registry.Count())

	p, err := registry.Get("ptt")
	require.NoError(t, err)
	assert.Same(t, second, p)
}

func TestRegistry_TrackBatch(t *testing.T) {
	registry := cargo.NewRegistry()
	aras := mock.New("aras")
	mng := mock.New("mng")
	registry.Register(aras)
	registry.Register(mng)

	ctx := context.Background()
	aras.CreateShipment(ctx, &cargo.ShipmentRequest{ReferenceID: "FB-1"})
	mng.CreateShipment(ctx, &cargo.ShipmentRequest{ReferenceID: "FB-2"})

	refs := []cargo.ShipmentRef{
		{Carrier: "aras", Reference: "FB-1"},
		{Carrier: "mng", Reference: "FB-2"},
		{Carrier: "mng", Reference: "FB-3"}, // never dispatched
	}

	results := registry.TrackBatch(ctx, refs)

	require.Len(t, results, 3)
	assert.Equal(t, refs[0], results[0].Ref)
	assert.Equal(t, cargo.StatusInTransit, results[0].Result.Status)
	assert.Equal(t, cargo.StatusInTransit, results[1].Result.Status)
	assert.Equal(t, cargo.StatusPending, results[2].Result.Status)
}

func TestRegistry_TrackBatch_UnknownCarrierYieldsFailureSlot(t *testing.T) {
	registry := cargo.NewRegistry()
	registry.Register(mock.New("aras"))

	results := registry.TrackBatch(context.Background(), []cargo.ShipmentRef{
		{Carrier: "dhl", Reference: "FB-1"},
	})

	require.Len(t, results, 1)
	require.False(t, results[0].Result.Success)
	assert.Contains(t, results[0].Result.Error, "carrier not found")
}

// slowProvider counts concurrent TrackShipment calls.
type slowProvider struct {
	*mock.Client
	active int32
	peak   int32
}

func (p *slowProvider) TrackShipment(ctx context.Context, reference string) *cargo.TrackingResult {
	n := atomic.AddInt32(&p.active, 1)
	for {
		peak := atomic.LoadInt32(&p.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&p.peak, peak, n) {
			break
		}
	}
	defer atomic.AddInt32(&p.active, -1)
	return p.Client.TrackShipment(ctx, reference)
}

func TestRegistry_TrackBatch_BoundsConcurrency(t *testing.T) {
	registry := cargo.NewRegistry()
	provider := &slowProvider{Client: mock.New("aras")}
	registry.Register(provider)

	refs := make([]cargo.ShipmentRef, 64)
	for i := range refs {
		refs[i] = cargo.ShipmentRef{Carrier: "aras", Reference: "FB-batch"}
	}

	results := registry.TrackBatch(context.Background(), refs)

	require.Len(t, results, 64)
	assert.LessOrEqual(t, atomic.LoadInt32(&provider.peak), int32(8))
}
