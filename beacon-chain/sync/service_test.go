package sync

import (
	"context"
	"testing"
	"time"

	types "github.com/prysmaticlabs/eth2-types"

	"github.com/harbor-labs/beacon-chain/beacon-chain/p2p"
	"github.com/harbor-labs/beacon-chain/beacon-chain/slotutil"
)

type fakeServiceProcessor struct{}

func (fakeServiceProcessor) UpdateHead(ctx context.Context, wallSlot types.Slot) (types.Slot, error) {
	return wallSlot, nil
}
func (fakeServiceProcessor) HandleValidatorDuties(ctx context.Context, lastSlot, wallSlot types.Slot) error {
	return nil
}
func (fakeServiceProcessor) FinalizedEpoch() types.Epoch { return 0 }
func (fakeServiceProcessor) GenesisTime() time.Time      { return time.Time{} }

func TestService_StartSubscribesInitialSubnetsThenStopIsClean(t *testing.T) {
	clock := slotutil.NewBeaconClock(time.Now())
	metadata := p2p.NewMetadata(fakeSubnetENRUpdater{})
	cfg := &Config{
		Clock:       clock,
		Processor:   fakeServiceProcessor{},
		Pubsub:      newFakeSubnetPubsub(),
		SyncManager: &fakeTickerSyncManager{},
		Fetcher:     newFakeRequestFetcher(),
		Metadata:    metadata,
		Validators:  &fakeSubnetValidatorPool{},
		Assigner:    fakeSubnetAssigner{subnetCount: 64},
		StartSlot:   0,
		RequestGC:   false,
	}

	svc := NewService(context.Background(), cfg)
	svc.Start()

	if svc.Status() != nil {
		t.Fatalf("Status() after Start = %v, want nil", svc.Status())
	}
	if len(svc.Subnets.ActiveSubnets()) == 0 {
		t.Error("expected Start to leave at least one attestation subnet active after InitialSubscribe")
	}

	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop() returned error: %v", err)
	}
}
