package service

import (
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketscan/common/model"
)

// cache 缓存一些数据库查询，加速查询
var cache = struct {
	LastBlock       uint64 //最后处理的区块号
	TotalCollection uint64 //总合集数量
	TotalListing    uint64 //总挂单数量
	TotalOffer      uint64 //总报价数量
	TotalSale       uint64 //总成交数量
	TotalActivity   uint64 //总活动数量
}{}

// initCache 从数据库初始化查询缓存
func initCache() (err error) {
	var number uint64
	if err = DB.Model(&model.Collection{}).Select("COUNT(*)").Scan(&number).Error; err != nil {
		return err
	}
	cache.TotalCollection = number
	if err = DB.Model(&model.Listing{}).Select("COUNT(*)").Scan(&number).Error; err != nil {
		return err
	}
	cache.TotalListing = number
	if err = DB.Model(&model.Offer{}).Select("COUNT(*)").Scan(&number).Error; err != nil {
		return err
	}
	cache.TotalOffer = number
	if err = DB.Model(&model.Sale{}).Select("COUNT(*)").Scan(&number).Error; err != nil {
		return err
	}
	cache.TotalSale = number
	if err = DB.Model(&model.Activity{}).Select("COUNT(*)").Scan(&number).Error; err != nil {
		return err
	}
	cache.TotalActivity = number
	var value string
	err = DB.Model(&model.Cache{}).Where("`key`='LastBlock'").Pluck("value", &value).Error
	if err != nil {
		return err
	}
	if value != "" {
		cache.LastBlock, err = strconv.ParseUint(value, 10, 64)
	}
	return err
}

func LastBlock() uint64 {
	return cache.LastBlock
}

func TotalListing() uint64 {
	return cache.TotalListing
}

func TotalSale() uint64 {
	return cache.TotalSale
}

// EventsInsert 一个区块的事件批作为一个事务写入，全部成功才推进扫描进度
func EventsInsert(parsed *model.Parsed) error {
	err := DB.Transaction(func(t *gorm.DB) error {
		for _, event := range parsed.Events {
			var err error
			switch e := event.(type) {
			case *model.InitializedEvent:
				err = MarketplaceInit(t, e)
			case *model.UpgradedEvent:
				err = MarketplaceUpgraded(t, e)
			case *model.PlatformFeeUpdatedEvent:
				err = PlatformFeeUpdated(t, e)
			case *model.AuctionBuffersUpdatedEvent:
				err = AuctionBuffersUpdated(t, e)
			case *model.ListingAddedEvent:
				err = SaveListing(t, e)
			case *model.ListingUpdatedEvent:
				err = UpdateListing(t, e)
			case *model.ListingRemovedEvent:
				err = RemoveListing(t, e)
			case *model.AuctionClosedEvent:
				err = CloseAuction(t, e)
			case *model.NewOfferEvent:
				err = SaveOffer(t, e)
			case *model.NewSaleEvent:
				err = SaveSale(t, e)
			case *model.TransferEvent:
				err = SaveTransfer(t, e)
			}
			if err != nil {
				return err
			}
		}
		// 记录扫描进度
		return t.Clauses(clause.OnConflict{DoUpdates: clause.AssignmentColumns([]string{"value"})}).Create(&model.Cache{
			Key: "LastBlock", Value: strconv.FormatUint(parsed.Number, 10),
		}).Error
	})

	// 如果写入数据库成功，则更新查询缓存
	if err == nil {
		cache.LastBlock = parsed.Number
		for _, event := range parsed.Events {
			// todo 被忽略的坏事件会造成误差，下次启动时重载修正
			switch event.(type) {
			case *model.ListingAddedEvent:
				cache.TotalListing++
				cache.TotalActivity++
			case *model.NewOfferEvent:
				cache.TotalOffer++
				cache.TotalActivity++
			case *model.NewSaleEvent:
				cache.TotalSale++
				cache.TotalActivity++
			case *model.TransferEvent:
				cache.TotalActivity++
			}
		}
	}
	return err
}
