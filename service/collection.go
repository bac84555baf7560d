package service

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"marketscan/common/model"
	"marketscan/common/types"
	"marketscan/common/utils"
)

var hundred = decimal.NewFromInt(100)

// getCollection 获取合集信息，首次出现时探测链上属性并创建
func getCollection(t *gorm.DB, address types.Address, timestamp uint64) (*model.Collection, error) {
	c := model.Collection{Address: address}
	if err := t.Find(&c).Error; err != nil {
		return nil, err
	}
	if c.CreatedAt != 0 {
		return &c, nil
	}
	c.Type, c.SupportsMetadata = utils.GetCollectionType(Client, address)
	if name, err := utils.Name(Client, address); err == nil {
		c.Name = name
	} else if err = utils.FilterContractErr(err); err != nil {
		return nil, err
	}
	if symbol, err := utils.Symbol(Client, address); err == nil {
		c.Symbol = symbol
	} else if err = utils.FilterContractErr(err); err != nil {
		return nil, err
	}
	if uri, err := utils.ContractURI(Client, address); err == nil {
		c.MetadataURI = uri
	} else if err = utils.FilterContractErr(err); err != nil {
		return nil, err
	}
	c.CreatedAt, c.UpdatedAt = timestamp, timestamp
	if err := t.Create(&c).Error; err != nil {
		return nil, err
	}
	if err := t.Create(&model.CollectionStats{Collection: address}).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ensureRoyaltyFee 版税费率未知时按当笔成交探测一次并缓存，百分比=版税额/总支付*100
func ensureRoyaltyFee(t *gorm.DB, c *model.Collection, tokenId, payment types.BigInt) error {
	if c.RoyaltyFee.Valid {
		return nil
	}
	fee := decimal.Zero
	supported, err := utils.IsERC2981(Client, c.Address)
	if err != nil {
		if err = utils.FilterContractErr(err); err != nil {
			return err
		}
	}
	if supported {
		_, amount, err := utils.RoyaltyInfo(Client, c.Address, tokenId, payment)
		if err != nil {
			if err = utils.FilterContractErr(err); err != nil {
				return err
			}
		} else if paid := toDecimal(payment); paid.IsPositive() {
			fee = toDecimal(amount).Mul(hundred).Div(paid)
		}
	}
	c.RoyaltyFee = decimal.NewNullDecimal(fee)
	return t.Model(&model.Collection{}).Where("address=?", c.Address).Update("royalty_fee", c.RoyaltyFee).Error
}
