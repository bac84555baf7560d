package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketscan/common/model"
	"marketscan/common/types"
	"marketscan/log"
)

// SaveOffer 报价写入，同一买家对同一挂单重复报价只保留最新一条
func SaveOffer(t *gorm.DB, e *model.NewOfferEvent) error {
	l := model.Listing{ID: listingID(e.Address, e.ListingId)}
	if err := t.Find(&l).Error; err != nil {
		return err
	}
	if l.CreatedAt == 0 {
		log.Debugf("忽略未知挂单的报价: %v", l.ID)
		return nil
	}
	if err := saveAccount(t, e.Offeror); err != nil {
		return err
	}
	amount := toAmount(e.Amount)
	o := model.Offer{
		ID:        fmt.Sprintf("%v:%v", l.ID, e.Offeror),
		Listing:   l.ID,
		Bidder:    e.Offeror,
		Quantity:  e.Quantity,
		Currency:  e.Currency,
		Amount:    amount,
		ExpiredAt: e.ExpiredAt,
		TxHash:    e.TxHash,
		Timestamp: e.Timestamp,
	}
	if err := t.Clauses(clause.OnConflict{UpdateAll: true}).Create(&o).Error; err != nil {
		return err
	}
	price := decimal.Zero
	if qty := toDecimal(e.Quantity); qty.IsPositive() {
		price = amount.Div(qty)
	}
	return t.Create(&model.Activity{
		ID:          fmt.Sprintf("%v-%v", e.TxHash, e.LogIndex),
		Type:        types.ActivityMakeOffer,
		From:        e.Offeror,
		To:          l.Owner,
		Collection:  l.Collection,
		Token:       l.Token,
		Quantity:    e.Quantity,
		Currency:    e.Currency,
		Price:       price,
		BlockNumber: e.BlockNumber,
		TxHash:      e.TxHash,
		Timestamp:   e.Timestamp,
	}).Error
}
