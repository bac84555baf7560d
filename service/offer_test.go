package service

import (
	"fmt"
	"testing"

	"marketscan/common/model"
	"marketscan/common/types"
)

func offerEvent(number, logIndex uint64, listingId types.BigInt, bidder types.Address, qty, amount types.BigInt) *model.NewOfferEvent {
	return &model.NewOfferEvent{
		Envelope:  head(number, logIndex, market),
		ListingId: listingId,
		Offeror:   bidder,
		Type:      types.ListingDirect,
		Quantity:  qty,
		Amount:    amount,
		Currency:  wcoin,
		ExpiredAt: 1900000000,
	}
}

func TestOfferSupersede(t *testing.T) {
	client := testInit(t)
	registerERC1155(client, nft1155)
	insert(t, 1,
		mintEvent(1, 0, nft1155, seller, "7", "10"),
		listingEvent(1, 1, "1", nft1155, seller, types.ListingDirect, "10", "1500000000000000000"),
	)
	insert(t, 2, offerEvent(2, 0, "1", buyer, "2", "2000000000000000000"))
	insert(t, 3, offerEvent(3, 0, "1", buyer, "3", "4500000000000000000"))

	var offers []*model.Offer
	if err := DB.Find(&offers, "listing=?", listingID(market, "1")).Error; err != nil {
		t.Fatal(err)
	}
	if len(offers) != 1 {
		t.Fatalf("offer rows = %v, want 1 after rebid", len(offers))
	}
	o := offers[0]
	if o.ID != fmt.Sprintf("%v:%v", listingID(market, "1"), buyer) {
		t.Fatalf("offer id = %v", o.ID)
	}
	if o.Quantity != "3" {
		t.Fatalf("quantity = %v, want 3", o.Quantity)
	}
	equal(t, "amount", o.Amount, "4.5")

	// 每次报价都留活动记录
	var count int64
	if err := DB.Model(&model.Activity{}).Where("type=?", types.ActivityMakeOffer).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("offer activities = %v, want 2", count)
	}
}

func TestOfferUnknownListing(t *testing.T) {
	testInit(t)
	insert(t, 1, offerEvent(1, 0, "999", buyer, "1", "1000000000000000000"))
	var count int64
	if err := DB.Model(&model.Offer{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("offer rows = %v, want 0 for unknown listing", count)
	}
	if LastBlock() != 1 {
		t.Fatalf("LastBlock = %v, want 1", LastBlock())
	}
}
