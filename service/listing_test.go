package service

import (
	"fmt"
	"testing"

	"marketscan/common/model"
	"marketscan/common/types"
)

func findListing(t *testing.T, listingId types.BigInt) *model.Listing {
	t.Helper()
	l := model.Listing{ID: listingID(market, listingId)}
	if err := DB.Find(&l).Error; err != nil {
		t.Fatal(err)
	}
	return &l
}

func findStats(t *testing.T, collection types.Address) *model.CollectionStats {
	t.Helper()
	stats := model.CollectionStats{Collection: collection}
	if err := DB.Find(&stats).Error; err != nil {
		t.Fatal(err)
	}
	return &stats
}

func findBalance(t *testing.T, token string, owner *types.Address) types.BigInt {
	t.Helper()
	id := token + ":totalSupply"
	if owner != nil {
		id = fmt.Sprintf("%v:%v", token, *owner)
	}
	b := model.TokenBalance{ID: id}
	if err := DB.Find(&b).Error; err != nil {
		t.Fatal(err)
	}
	if b.Value == "" {
		return "0"
	}
	return b.Value
}

func TestListingLifecycle(t *testing.T) {
	client := testInit(t)
	registerERC1155(client, nft1155)
	insert(t, 1,
		mintEvent(1, 0, nft1155, seller, "7", "10"),
		listingEvent(1, 1, "1", nft1155, seller, types.ListingDirect, "10", "2000000000000000000"),
	)

	l := findListing(t, "1")
	if l.CreatedAt == 0 {
		t.Fatal("listing not created")
	}
	if l.AvailableQty != "10" || l.ClosedAt != nil {
		t.Fatalf("availableQty = %v, closedAt = %v", l.AvailableQty, l.ClosedAt)
	}
	if listed := findStats(t, nft1155).Listed; listed != 10 {
		t.Fatalf("listed = %v, want 10", listed)
	}
	var activity model.Activity
	if err := DB.Find(&activity, "type=?", types.ActivityList).Error; err != nil {
		t.Fatal(err)
	}
	if activity.Collection != nft1155 || activity.From != seller {
		t.Fatalf("list activity = %+v", activity)
	}

	// 撤销后软关闭，记录保留
	insert(t, 2, &model.ListingRemovedEvent{Envelope: head(2, 0, market), ListingId: "1", Creator: seller})
	l = findListing(t, "1")
	if l.ClosedAt == nil {
		t.Fatal("listing not closed after removal")
	}
	if l.AvailableQty != "0" {
		t.Fatalf("availableQty after removal = %v, want 0", l.AvailableQty)
	}
	if listed := findStats(t, nft1155).Listed; listed != 0 {
		t.Fatalf("listed after removal = %v, want 0", listed)
	}

	// 重复撤销和未知挂单的撤销都静默忽略
	insert(t, 3,
		&model.ListingRemovedEvent{Envelope: head(3, 0, market), ListingId: "1", Creator: seller},
		&model.ListingRemovedEvent{Envelope: head(3, 1, market), ListingId: "999", Creator: seller},
	)
	if listed := findStats(t, nft1155).Listed; listed != 0 {
		t.Fatalf("listed after duplicate removal = %v, want 0", listed)
	}
}

func TestAuctionEscrow(t *testing.T) {
	client := testInit(t)
	registerERC721(client, nft721)
	insert(t, 1,
		mintEvent(1, 0, nft721, seller, "7", "1"),
		listingEvent(1, 1, "2", nft721, seller, types.ListingAuction, "1", "5000000000000000000"),
	)
	token := tokenID(nft721, "7")
	s, m := seller, market
	if v := findBalance(t, token, &s); v != "0" {
		t.Fatalf("seller balance after escrow = %v, want 0", v)
	}
	if v := findBalance(t, token, &m); v != "1" {
		t.Fatalf("marketplace balance after escrow = %v, want 1", v)
	}

	// 取消的拍卖退回托管资产
	insert(t, 2, &model.AuctionClosedEvent{
		Envelope: head(2, 0, market), ListingId: "2", Closer: seller, Cancelled: true, Creator: seller,
	})
	if v := findBalance(t, token, &s); v != "1" {
		t.Fatalf("seller balance after cancel = %v, want 1", v)
	}
	if v := findBalance(t, token, &m); v != "0" {
		t.Fatalf("marketplace balance after cancel = %v, want 0", v)
	}
	if l := findListing(t, "2"); l.ClosedAt == nil {
		t.Fatal("auction not closed after cancel")
	}
}

func TestUpdateListingReread(t *testing.T) {
	client := testInit(t)
	registerERC1155(client, nft1155)
	insert(t, 1,
		mintEvent(1, 0, nft1155, seller, "7", "10"),
		listingEvent(1, 1, "3", nft1155, seller, types.ListingDirect, "4", "1000000000000000000"),
	)

	// 链上权威状态：数量8、一口价3、币种不变
	client.ret(market, sel("listings(uint256)"), types.Data("0x"+
		wordN(3)+wordAddr(seller)+wordAddr(nft1155)+wordN(7)+
		wordN(1700000000)+wordN(1800000500)+wordN(8)+wordAddr(wcoin)+
		wordN(0)+"00000000000000000000000000000000000000000000000029a2241af62c0000"+
		wordN(0)+wordN(0)))
	insert(t, 2, &model.ListingUpdatedEvent{Envelope: head(2, 0, market), ListingId: "3", Creator: seller})

	l := findListing(t, "3")
	if l.Quantity != "8" || l.AvailableQty != "8" {
		t.Fatalf("quantity = %v, availableQty = %v, want 8/8", l.Quantity, l.AvailableQty)
	}
	if l.BuyoutPrice != "3000000000000000000" {
		t.Fatalf("buyoutPrice = %v", l.BuyoutPrice)
	}
	if l.EndTime != 1800000500 {
		t.Fatalf("endTime = %v", l.EndTime)
	}
	if listed := findStats(t, nft1155).Listed; listed != 8 {
		t.Fatalf("listed = %v, want 8", listed)
	}

	// 部分成交后变更，可售量以重读值为准，不做差额叠加
	insert(t, 3, saleEvent(3, 0, "3", nft1155, "3", "3000000000000000000"))
	if l = findListing(t, "3"); l.AvailableQty != "5" {
		t.Fatalf("availableQty after partial fill = %v, want 5", l.AvailableQty)
	}
	client.ret(market, sel("listings(uint256)"), types.Data("0x"+
		wordN(3)+wordAddr(seller)+wordAddr(nft1155)+wordN(7)+
		wordN(1700000000)+wordN(1800000500)+wordN(12)+wordAddr(wcoin)+
		wordN(0)+wordN(3000000000000000000)+wordN(0)+wordN(0)))
	insert(t, 4, &model.ListingUpdatedEvent{Envelope: head(4, 0, market), ListingId: "3", Creator: seller})
	l = findListing(t, "3")
	if l.Quantity != "12" || l.AvailableQty != "12" {
		t.Fatalf("quantity = %v, availableQty = %v, want 12/12", l.Quantity, l.AvailableQty)
	}
	if listed := findStats(t, nft1155).Listed; listed != 12 {
		t.Fatalf("listed = %v, want 12", listed)
	}

	// 未知挂单的变更静默忽略，不触发链上读取
	before := client.count(market, sel("listings(uint256)"))
	insert(t, 5, &model.ListingUpdatedEvent{Envelope: head(5, 0, market), ListingId: "999", Creator: seller})
	if client.count(market, sel("listings(uint256)")) != before {
		t.Fatal("unexpected chain read for unknown listing")
	}
}
