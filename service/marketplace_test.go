package service

import (
	"testing"

	"marketscan/common/model"
)

func TestMarketplaceEvents(t *testing.T) {
	testInit(t)
	insert(t, 1, &model.InitializedEvent{Envelope: head(1, 0, market)})

	m := findMarketplace(t)
	if m.CreatedAt == 0 {
		t.Fatal("marketplace not created")
	}
	if m.Version != 0 || m.PlatformFee.Valid {
		t.Fatalf("fresh marketplace = %+v", m)
	}

	insert(t, 2, &model.UpgradedEvent{Envelope: head(2, 0, market), Implementation: seller})
	if m = findMarketplace(t); m.Version != 1 {
		t.Fatalf("version = %v, want 1 after upgrade", m.Version)
	}

	insert(t, 3, &model.AuctionBuffersUpdatedEvent{Envelope: head(3, 0, market), TimeBuffer: 900, BidBuffer: 500})
	m = findMarketplace(t)
	if m.TimeBuffer != 900 || m.BidBuffer != 500 {
		t.Fatalf("buffers = %v/%v, want 900/500", m.TimeBuffer, m.BidBuffer)
	}

	insert(t, 4, &model.PlatformFeeUpdatedEvent{Envelope: head(4, 0, market), Recipient: seller, Bps: 250})
	m = findMarketplace(t)
	if !m.PlatformFee.Valid {
		t.Fatal("platform fee not set")
	}
	equal(t, "platformFee", m.PlatformFee.Decimal, "2.5")
	if m.FeeRecipient != seller {
		t.Fatalf("feeRecipient = %v", m.FeeRecipient)
	}
}
