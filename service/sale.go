package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marketscan/common/model"
	"marketscan/common/types"
	"marketscan/log"
)

// SaveSale 成交结算，扣减可售量、解析费率、分摊收入并驱动快照
func SaveSale(t *gorm.DB, e *model.NewSaleEvent) error {
	l := model.Listing{ID: listingID(e.Address, e.ListingId)}
	if err := t.Find(&l).Error; err != nil {
		return err
	}
	if l.CreatedAt == 0 {
		log.Debugf("忽略未知挂单的成交: %v", l.ID)
		return nil
	}
	qty := bigFromStr(e.Quantity)
	if qty.Sign() <= 0 {
		log.Debugf("忽略数量为0的成交: %v %v", e.TxHash, e.LogIndex)
		return nil
	}
	m, err := getMarketplace(t, e.Address, e.Timestamp)
	if err != nil {
		return err
	}
	c, err := getCollection(t, e.Collection, e.Timestamp)
	if err != nil {
		return err
	}
	token := model.Token{ID: l.Token}
	if err = t.Find(&token).Error; err != nil {
		return err
	}
	if err = saveAccount(t, e.Seller, e.Buyer); err != nil {
		return err
	}

	// 结算币种：买家有未失效报价的用报价币种，否则用挂单币种
	currency := l.Currency
	offer := model.Offer{ID: fmt.Sprintf("%v:%v", l.ID, e.Buyer)}
	if err = t.Find(&offer).Error; err != nil {
		return err
	}
	if offer.Timestamp != 0 {
		currency = offer.Currency
	}

	volume := toAmount(e.Payment)
	unitPrice := volume.Div(decimal.NewFromBigInt(qty, 0))

	// 可售量扣减，归零自然关闭，托管已被成交消耗不再退回
	oldAvail := bigFromStr(l.AvailableQty)
	sold := qty
	if qty.Cmp(oldAvail) > 0 {
		sold = oldAvail
	}
	avail := bigFromStr(l.AvailableQty)
	avail.Sub(avail, qty)
	if avail.Sign() < 0 {
		avail.SetInt64(0)
	}
	updates := map[string]interface{}{
		"available_qty": avail.Text(10),
		"updated_at":    e.Timestamp,
	}
	if avail.Sign() == 0 && l.ClosedAt == nil {
		updates["closed_at"] = e.Timestamp
	}
	if err = t.Model(&model.Listing{}).Where("id=?", l.ID).Updates(updates).Error; err != nil {
		return err
	}
	if err = statsListedAdd(t, l.Collection, -sold.Int64()); err != nil {
		return err
	}

	// 拍卖成交的托管资产转给买家
	if l.Type == types.ListingAuction {
		if err = escrowMove(t, l.Collection, l.Token, l.Marketplace, e.Buyer, qty); err != nil {
			return err
		}
	}

	// 费率解析，探测一次后缓存
	if err = ensureRoyaltyFee(t, c, token.TokenId, e.Payment); err != nil {
		return err
	}
	if err = ensurePlatformFee(t, m); err != nil {
		return err
	}
	creatorDelta := volume.Mul(c.RoyaltyFee.Decimal).Div(hundred)
	marketDelta := volume.Mul(m.PlatformFee.Decimal).Div(hundred)

	// 合集累计，总收入=平台收入+创建者收入重算
	c.TradeVolume = c.TradeVolume.Add(volume)
	c.MarketRevenue = c.MarketRevenue.Add(marketDelta)
	c.CreatorRevenue = c.CreatorRevenue.Add(creatorDelta)
	c.TotalRevenue = c.MarketRevenue.Add(c.CreatorRevenue)
	if err = t.Model(&model.Collection{}).Where("address=?", c.Address).Updates(map[string]interface{}{
		"trade_volume":    c.TradeVolume,
		"market_revenue":  c.MarketRevenue,
		"creator_revenue": c.CreatorRevenue,
		"total_revenue":   c.TotalRevenue,
		"updated_at":      e.Timestamp,
	}).Error; err != nil {
		return err
	}

	// 市场累计
	m.TradeVolume = m.TradeVolume.Add(volume)
	m.MarketRevenue = m.MarketRevenue.Add(marketDelta)
	m.CreatorRevenue = m.CreatorRevenue.Add(creatorDelta)
	m.TotalRevenue = m.MarketRevenue.Add(m.CreatorRevenue)
	if err = t.Model(&model.Marketplace{}).Where("address=?", m.Address).Updates(map[string]interface{}{
		"trade_volume":    m.TradeVolume,
		"market_revenue":  m.MarketRevenue,
		"creator_revenue": m.CreatorRevenue,
		"total_revenue":   m.TotalRevenue,
		"updated_at":      e.Timestamp,
	}).Error; err != nil {
		return err
	}

	// 合集成交统计
	stats := model.CollectionStats{Collection: c.Address}
	if err = t.Find(&stats).Error; err != nil {
		return err
	}
	stats.Sales++
	stats.Volume = stats.Volume.Add(volume)
	if unitPrice.GreaterThan(stats.HighestSale) {
		stats.HighestSale = unitPrice
	}
	if stats.FloorPrice.IsZero() || unitPrice.LessThan(stats.FloorPrice) {
		stats.FloorPrice = unitPrice
	}
	stats.AvgPrice = stats.Volume.Div(decimal.NewFromInt(stats.Sales))
	if err = t.Model(&model.CollectionStats{}).Where("collection=?", c.Address).Updates(map[string]interface{}{
		"sales":        stats.Sales,
		"volume":       stats.Volume,
		"highest_sale": stats.HighestSale,
		"floor_price":  stats.FloorPrice,
		"avg_price":    stats.AvgPrice,
	}).Error; err != nil {
		return err
	}

	// 成交记录，只追加
	if err = t.Create(&model.Sale{
		ID:        fmt.Sprintf("%v-%v", e.TxHash, e.LogIndex),
		Listing:   l.ID,
		Seller:    e.Seller,
		Buyer:     e.Buyer,
		Quantity:  e.Quantity,
		Payment:   e.Payment,
		Currency:  currency,
		UnitPrice: unitPrice,
		TxHash:    e.TxHash,
		Timestamp: e.Timestamp,
	}).Error; err != nil {
		return err
	}

	// 每日快照，当日交易额按链上原始wei值累加
	if err = updateCollectionSnapshot(t, c, e.Head(), toDecimal(e.Payment), unitPrice); err != nil {
		return err
	}
	if err = updateMarketplaceSnapshot(t, m, e.Head(), toDecimal(e.Payment), unitPrice); err != nil {
		return err
	}

	return t.Create(&model.Activity{
		ID:          fmt.Sprintf("%v-%v", e.TxHash, e.LogIndex),
		Type:        types.ActivitySale,
		From:        e.Seller,
		To:          e.Buyer,
		Collection:  c.Address,
		Token:       l.Token,
		Quantity:    e.Quantity,
		Currency:    currency,
		Price:       unitPrice,
		BlockNumber: e.BlockNumber,
		TxHash:      e.TxHash,
		Timestamp:   e.Timestamp,
	}).Error
}
