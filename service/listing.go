package service

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marketscan/common/model"
	"marketscan/common/types"
	"marketscan/common/utils"
	"marketscan/log"
)

// statsListedAdd 合集可售数量统计增减
func statsListedAdd(t *gorm.DB, collection types.Address, delta int64) error {
	if delta == 0 {
		return nil
	}
	return t.Model(&model.CollectionStats{}).Where("collection=?", collection).
		Update("listed", gorm.Expr("listed + ?", delta)).Error
}

// escrowMove 托管资产在挂单者和市场合约间移动
func escrowMove(t *gorm.DB, collection types.Address, token string, from, to types.Address, qty *big.Int) error {
	if qty.Sign() <= 0 {
		return nil
	}
	if err := balanceAdd(t, collection, token, &from, new(big.Int).Neg(qty)); err != nil {
		return err
	}
	return balanceAdd(t, collection, token, &to, qty)
}

// listingActivity 挂单相关活动记录
func listingActivity(t *gorm.DB, l *model.Listing, head *model.Envelope, typ types.ActivityType, from, to types.Address, qty types.BigInt, price decimal.Decimal) error {
	return t.Create(&model.Activity{
		ID:          fmt.Sprintf("%v-%v", head.TxHash, head.LogIndex),
		Type:        typ,
		From:        from,
		To:          to,
		Collection:  l.Collection,
		Token:       l.Token,
		Quantity:    qty,
		Currency:    l.Currency,
		Price:       price,
		BlockNumber: head.BlockNumber,
		TxHash:      head.TxHash,
		Timestamp:   head.Timestamp,
	}).Error
}

// SaveListing 新挂单写入，拍卖资产托管给市场合约
func SaveListing(t *gorm.DB, e *model.ListingAddedEvent) error {
	m, err := getMarketplace(t, e.Address, e.Timestamp)
	if err != nil {
		return err
	}
	c, err := getCollection(t, e.Collection, e.Timestamp)
	if err != nil {
		return err
	}
	token, err := getToken(t, c, e.Listing.TokenId, e.Timestamp)
	if err != nil {
		return err
	}
	if err = saveAccount(t, e.Lister, e.Listing.TokenOwner); err != nil {
		return err
	}
	l := model.Listing{
		ID:           listingID(e.Address, e.ListingId),
		Marketplace:  m.Address,
		Collection:   c.Address,
		Token:        token.ID,
		Owner:        e.Listing.TokenOwner,
		Type:         e.Listing.Type,
		StartTime:    e.Listing.StartTime,
		EndTime:      e.Listing.EndTime,
		Currency:     e.Listing.Currency,
		ReservePrice: e.Listing.ReservePrice,
		BuyoutPrice:  e.Listing.BuyoutPrice,
		Quantity:     e.Listing.Quantity,
		AvailableQty: e.Listing.Quantity,
		CreatedAt:    e.Timestamp,
		UpdatedAt:    e.Timestamp,
	}
	if err = t.Create(&l).Error; err != nil {
		return err
	}
	if l.Type == types.ListingAuction {
		if err = escrowMove(t, c.Address, token.ID, l.Owner, m.Address, bigFromStr(l.Quantity)); err != nil {
			return err
		}
	}
	if err = statsListedAdd(t, c.Address, utils.BigToQty(l.Quantity)); err != nil {
		return err
	}
	return listingActivity(t, &l, e.Head(), types.ActivityList, l.Owner, "", l.Quantity, toAmount(l.BuyoutPrice))
}

// UpdateListing 挂单变更事件不携带新条款，从链上权威重读后整条覆盖
func UpdateListing(t *gorm.DB, e *model.ListingUpdatedEvent) error {
	l := model.Listing{ID: listingID(e.Address, e.ListingId)}
	if err := t.Find(&l).Error; err != nil {
		return err
	}
	if l.CreatedAt == 0 || l.ClosedAt != nil {
		log.Debugf("忽略未知或已关闭挂单的变更: %v", l.ID)
		return nil
	}
	raw, err := utils.GetListing(Client, e.Address, e.ListingId)
	if err != nil {
		return utils.FilterContractErr(err)
	}
	// 可售量直接取链上重读值，和旧可售量的差额用于修正统计和托管
	diff := new(big.Int).Sub(bigFromStr(raw.Quantity), bigFromStr(l.AvailableQty))
	if l.Type == types.ListingAuction {
		if diff.Sign() > 0 {
			if err = escrowMove(t, l.Collection, l.Token, l.Owner, l.Marketplace, diff); err != nil {
				return err
			}
		} else if diff.Sign() < 0 {
			if err = escrowMove(t, l.Collection, l.Token, l.Marketplace, l.Owner, new(big.Int).Neg(diff)); err != nil {
				return err
			}
		}
	}
	if err = statsListedAdd(t, l.Collection, diff.Int64()); err != nil {
		return err
	}
	if err = t.Model(&model.Listing{}).Where("id=?", l.ID).Updates(map[string]interface{}{
		"start_time":    raw.StartTime,
		"end_time":      raw.EndTime,
		"currency":      raw.Currency,
		"reserve_price": raw.ReservePrice,
		"buyout_price":  raw.BuyoutPrice,
		"quantity":      raw.Quantity,
		"available_qty": raw.Quantity,
		"updated_at":    e.Timestamp,
	}).Error; err != nil {
		return err
	}
	l.Currency = raw.Currency
	return listingActivity(t, &l, e.Head(), types.ActivityUpdate, l.Owner, "", raw.Quantity, toAmount(raw.BuyoutPrice))
}

// closeListing 软关闭挂单，拍卖的剩余托管资产退回挂单者
func closeListing(t *gorm.DB, l *model.Listing, timestamp uint64) error {
	if l.ClosedAt != nil {
		return nil
	}
	avail := bigFromStr(l.AvailableQty)
	if l.Type == types.ListingAuction && avail.Sign() > 0 {
		if err := escrowMove(t, l.Collection, l.Token, l.Marketplace, l.Owner, avail); err != nil {
			return err
		}
	}
	if err := statsListedAdd(t, l.Collection, -utils.BigToQty(l.AvailableQty)); err != nil {
		return err
	}
	l.ClosedAt = &timestamp
	l.AvailableQty = "0"
	return t.Model(&model.Listing{}).Where("id=?", l.ID).Updates(map[string]interface{}{
		"available_qty": "0",
		"closed_at":     timestamp,
		"updated_at":    timestamp,
	}).Error
}

// RemoveListing 挂单撤销，记录保留只做软关闭
func RemoveListing(t *gorm.DB, e *model.ListingRemovedEvent) error {
	l := model.Listing{ID: listingID(e.Address, e.ListingId)}
	if err := t.Find(&l).Error; err != nil {
		return err
	}
	if l.CreatedAt == 0 {
		log.Debugf("忽略未知挂单的撤销: %v", l.ID)
		return nil
	}
	if l.ClosedAt != nil {
		return nil
	}
	qty := l.AvailableQty
	if err := closeListing(t, &l, e.Timestamp); err != nil {
		return err
	}
	return listingActivity(t, &l, e.Head(), types.ActivityUnlist, l.Owner, "", qty, toAmount(l.BuyoutPrice))
}

// CloseAuction 拍卖关闭，取消的按撤销处理，成交腿由NewSale事件记账
func CloseAuction(t *gorm.DB, e *model.AuctionClosedEvent) error {
	l := model.Listing{ID: listingID(e.Address, e.ListingId)}
	if err := t.Find(&l).Error; err != nil {
		return err
	}
	if l.CreatedAt == 0 {
		log.Debugf("忽略未知拍卖的关闭: %v", l.ID)
		return nil
	}
	qty := l.AvailableQty
	if err := closeListing(t, &l, e.Timestamp); err != nil {
		return err
	}
	if e.Cancelled {
		return listingActivity(t, &l, e.Head(), types.ActivityUnlist, e.Creator, "", qty, toAmount(l.BuyoutPrice))
	}
	return listingActivity(t, &l, e.Head(), types.ActivityCloseAuction, e.Creator, e.WinningBidder, qty, toAmount(l.BuyoutPrice))
}
