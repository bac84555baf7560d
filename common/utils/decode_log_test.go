package utils

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"marketscan/common/model"
	"marketscan/common/types"
)

var (
	testMarket = types.Address("0x00000000000000000000000000000000000000aa")
	testNFT    = types.Address("0x00000000000000000000000000000000000000b1")
	testSeller = types.Address("0x0000000000000000000000000000000000000101")
	testBuyer  = types.Address("0x0000000000000000000000000000000000000102")
	testCoin   = types.Address("0x0000000000000000000000000000000000000201")
)

func topicAddr(addr types.Address) types.Hash {
	return types.Hash("0x000000000000000000000000" + string(addr[2:]))
}

func topicN(n int64) types.Hash {
	return types.Hash(fmt.Sprintf("0x%064x", n))
}

func wordN(n int64) string {
	return fmt.Sprintf("%064x", n)
}

func wordAddr(addr types.Address) string {
	return "000000000000000000000000" + string(addr[2:])
}

func testLog(address types.Address, topics []types.Hash, data string) *model.EventLog {
	return &model.EventLog{
		Address:     address,
		Topics:      topics,
		Data:        data,
		BlockNumber: 100,
		TxHash:      "0x1111111111111111111111111111111111111111111111111111111111111111",
		Index:       3,
	}
}

func TestUnpackListingAdded(t *testing.T) {
	data := "0x" +
		wordN(5) + wordAddr(testSeller) + wordAddr(testNFT) + wordN(7) +
		wordN(1700000000) + wordN(1800000000) + wordN(4) + wordAddr(testCoin) +
		wordN(0) + wordN(2000000000000000000) + wordN(1) + wordN(0)
	event := UnpackMarketplaceLog(testLog(testMarket, []types.Hash{
		listingAddedTopic, topicN(5), topicAddr(testNFT), topicAddr(testSeller),
	}, data))
	added, ok := event.(*model.ListingAddedEvent)
	if !ok {
		t.Fatalf("decoded %T, want ListingAddedEvent", event)
	}
	if added.ListingId != "5" || added.Collection != testNFT || added.Lister != testSeller {
		t.Fatalf("header fields = %+v", added)
	}
	raw := added.Listing
	if raw.TokenId != "7" || raw.TokenOwner != testSeller || raw.Quantity != "4" {
		t.Fatalf("listing tuple = %+v", raw)
	}
	if raw.Currency != testCoin || raw.BuyoutPrice != "2000000000000000000" {
		t.Fatalf("terms = %+v", raw)
	}
	if raw.StartTime != 1700000000 || raw.EndTime != 1800000000 {
		t.Fatalf("times = %v-%v", raw.StartTime, raw.EndTime)
	}
	if raw.Type != types.ListingDirect {
		t.Fatalf("type = %v, want DIRECT", raw.Type)
	}
	if added.BlockNumber != 100 || added.LogIndex != 3 || added.Address != testMarket {
		t.Fatalf("envelope = %+v", added.Envelope)
	}
}

func TestUnpackNewSale(t *testing.T) {
	data := "0x" + wordAddr(testBuyer) + wordN(2) + wordN(3000000000000000000)
	event := UnpackMarketplaceLog(testLog(testMarket, []types.Hash{
		newSaleTopic, topicN(5), topicAddr(testNFT), topicAddr(testSeller),
	}, data))
	sale, ok := event.(*model.NewSaleEvent)
	if !ok {
		t.Fatalf("decoded %T, want NewSaleEvent", event)
	}
	if sale.ListingId != "5" || sale.Collection != testNFT || sale.Seller != testSeller {
		t.Fatalf("sale = %+v", sale)
	}
	if sale.Buyer != testBuyer || sale.Quantity != "2" || sale.Payment != "3000000000000000000" {
		t.Fatalf("sale terms = %+v", sale)
	}
}

func TestUnpackNewOffer(t *testing.T) {
	data := "0x" + wordN(2) + wordN(2000000000000000000) + wordAddr(testCoin) + wordN(1900000000)
	event := UnpackMarketplaceLog(testLog(testMarket, []types.Hash{
		newOfferTopic, topicN(5), topicAddr(testBuyer), topicN(1),
	}, data))
	offer, ok := event.(*model.NewOfferEvent)
	if !ok {
		t.Fatalf("decoded %T, want NewOfferEvent", event)
	}
	if offer.Offeror != testBuyer || offer.Type != types.ListingAuction {
		t.Fatalf("offer = %+v", offer)
	}
	if offer.Quantity != "2" || offer.Amount != "2000000000000000000" {
		t.Fatalf("offer terms = %+v", offer)
	}
	if offer.Currency != testCoin || offer.ExpiredAt != 1900000000 {
		t.Fatalf("offer currency/expiry = %v %v", offer.Currency, offer.ExpiredAt)
	}
}

func TestUnpackAuctionClosed(t *testing.T) {
	data := "0x" + wordAddr(testSeller) + wordAddr(testBuyer)
	event := UnpackMarketplaceLog(testLog(testMarket, []types.Hash{
		auctionClosedTopic, topicN(5), topicAddr(testBuyer), topicN(1),
	}, data))
	closed, ok := event.(*model.AuctionClosedEvent)
	if !ok {
		t.Fatalf("decoded %T, want AuctionClosedEvent", event)
	}
	if !closed.Cancelled || closed.Creator != testSeller || closed.WinningBidder != testBuyer {
		t.Fatalf("auction closed = %+v", closed)
	}
}

func TestUnpackPlatformFeeUpdated(t *testing.T) {
	event := UnpackMarketplaceLog(testLog(testMarket, []types.Hash{
		platformFeeTopic, topicAddr(testSeller),
	}, "0x"+wordN(250)))
	fee, ok := event.(*model.PlatformFeeUpdatedEvent)
	if !ok {
		t.Fatalf("decoded %T, want PlatformFeeUpdatedEvent", event)
	}
	if fee.Recipient != testSeller || fee.Bps != 250 {
		t.Fatalf("fee = %+v", fee)
	}
}

func TestUnpackUnknownTopic(t *testing.T) {
	event := UnpackMarketplaceLog(testLog(testMarket, []types.Hash{
		Keccak256Hash([]byte("Unrelated(uint256)")), topicN(1),
	}, "0x"))
	if event != nil {
		t.Fatalf("decoded %T from unknown topic", event)
	}
}

func TestUnpackTransfer721(t *testing.T) {
	events := UnpackTransferLog(testLog(testNFT, []types.Hash{
		transferTopic, topicAddr(testSeller), topicAddr(testBuyer), topicN(7),
	}, "0x"))
	if len(events) != 1 {
		t.Fatalf("decoded %v events, want 1", len(events))
	}
	transfer := events[0].(*model.TransferEvent)
	if transfer.From != testSeller || transfer.To != testBuyer {
		t.Fatalf("transfer = %+v", transfer)
	}
	if transfer.TokenId != "7" || transfer.Value != "1" {
		t.Fatalf("transfer token = %v value = %v", transfer.TokenId, transfer.Value)
	}
}

func TestUnpackTransfer20Skipped(t *testing.T) {
	// ERC20转移主题相同但只有3个topic
	events := UnpackTransferLog(testLog(testCoin, []types.Hash{
		transferTopic, topicAddr(testSeller), topicAddr(testBuyer),
	}, "0x"+wordN(1000)))
	if events != nil {
		t.Fatalf("decoded %v events from ERC20 transfer", len(events))
	}
}

func TestUnpackTransferSingle(t *testing.T) {
	events := UnpackTransferLog(testLog(testNFT, []types.Hash{
		transferSingleTopic, topicAddr(testMarket), topicAddr(testSeller), topicAddr(testBuyer),
	}, "0x"+wordN(7)+wordN(4)))
	if len(events) != 1 {
		t.Fatalf("decoded %v events, want 1", len(events))
	}
	transfer := events[0].(*model.TransferEvent)
	if transfer.Operator != testMarket || transfer.From != testSeller || transfer.To != testBuyer {
		t.Fatalf("transfer = %+v", transfer)
	}
	if transfer.TokenId != "7" || transfer.Value != "4" {
		t.Fatalf("transfer token = %v value = %v", transfer.TokenId, transfer.Value)
	}
}

func TestUnpackTransferBatch(t *testing.T) {
	data := "0x" +
		wordN(0x40) + wordN(0xa0) +
		wordN(2) + wordN(7) + wordN(8) +
		wordN(2) + wordN(4) + wordN(5)
	events := UnpackTransferLog(testLog(testNFT, []types.Hash{
		transferBatchTopic, topicAddr(testMarket), topicAddr(testSeller), topicAddr(testBuyer),
	}, data))
	if len(events) != 2 {
		t.Fatalf("decoded %v events, want 2", len(events))
	}
	first := events[0].(*model.TransferEvent)
	second := events[1].(*model.TransferEvent)
	if first.TokenId != "7" || first.Value != "4" || first.SubIndex != 0 {
		t.Fatalf("first = %+v", first)
	}
	if second.TokenId != "8" || second.Value != "5" || second.SubIndex != 1 {
		t.Fatalf("second = %+v", second)
	}
}

// spyClient 记录最后一次调用并回放固定返回
type spyClient struct {
	msg map[string]interface{}
	out types.Data
}

func (s *spyClient) CallContract(_ context.Context, msg map[string]interface{}, _ *types.BigInt) (types.Data, error) {
	s.msg = msg
	return s.out, nil
}

func TestGetListing(t *testing.T) {
	client := &spyClient{out: types.Data("0x" +
		wordN(5) + wordAddr(testSeller) + wordAddr(testNFT) + wordN(7) +
		wordN(1700000000) + wordN(1800000000) + wordN(8) + wordAddr(testCoin) +
		wordN(0) + wordN(2000000000000000000) + wordN(0) + wordN(1))}
	raw, err := GetListing(client, testMarket, "5")
	if err != nil {
		t.Fatal(err)
	}
	if raw.TokenOwner != testSeller || raw.TokenId != "7" || raw.Quantity != "8" {
		t.Fatalf("listing = %+v", raw)
	}
	if raw.Type != types.ListingAuction {
		t.Fatalf("type = %v, want AUCTION", raw.Type)
	}
	if to := fmt.Sprintf("%v", client.msg["to"]); to != string(testMarket) {
		t.Fatalf("called to = %v", to)
	}
	data := fmt.Sprintf("%v", client.msg["data"])
	sig := Keccak256Hash([]byte("listings(uint256)"))
	if data[:10] != "0x"+string(sig[2:10]) {
		t.Fatalf("selector = %v", data[:10])
	}
	if _, ok := new(big.Int).SetString(data[10:], 16); !ok || data[10:] != wordN(5) {
		t.Fatalf("argument = %v", data[10:])
	}
}
