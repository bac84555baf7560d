package service

import (
	"fmt"
	"math/big"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketscan/common/model"
	"marketscan/common/types"
	"marketscan/common/utils"
	"marketscan/log"
)

// getToken 获取资产信息，首次出现时探测元信息URI并创建，同时建总发行量记录
func getToken(t *gorm.DB, c *model.Collection, tokenId types.BigInt, timestamp uint64) (*model.Token, error) {
	token := model.Token{ID: tokenID(c.Address, tokenId)}
	if err := t.Find(&token).Error; err != nil {
		return nil, err
	}
	if token.CreatedAt != 0 {
		return &token, nil
	}
	token.Collection, token.TokenId = c.Address, tokenId
	if c.SupportsMetadata {
		if c.Type == types.CollectionSingle {
			if uri, err := utils.TokenURI(Client, c.Address, tokenId); err == nil {
				token.URI = uri
			}
		} else {
			if uri, err := utils.URI(Client, c.Address, tokenId); err == nil {
				token.URI = uri
			}
		}
	}
	token.CreatedAt, token.UpdatedAt = timestamp, timestamp
	if err := t.Create(&token).Error; err != nil {
		return nil, err
	}
	// 总发行量记录，owner为空
	supply := model.TokenBalance{ID: token.ID + ":totalSupply", Collection: c.Address, Token: token.ID, Value: "0"}
	if err := t.Create(&supply).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// balanceAdd 持有量增减，owner为nil时操作总发行量记录
func balanceAdd(t *gorm.DB, collection types.Address, token string, owner *types.Address, delta *big.Int) error {
	id := token + ":totalSupply"
	if owner != nil {
		id = fmt.Sprintf("%v:%v", token, *owner)
	}
	b := model.TokenBalance{ID: id}
	if err := t.Find(&b).Error; err != nil {
		return err
	}
	value := bigFromStr(b.Value)
	value.Add(value, delta)
	b.Collection, b.Token, b.Owner, b.Value = collection, token, owner, types.BigInt(value.Text(10))
	return t.Clauses(clause.OnConflict{
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&b).Error
}

// SaveTransfer 资产转移记账，零地址方向区分铸造和销毁
func SaveTransfer(t *gorm.DB, e *model.TransferEvent) error {
	c, err := getCollection(t, e.Collection, e.Timestamp)
	if err != nil {
		return err
	}
	token, err := getToken(t, c, e.TokenId, e.Timestamp)
	if err != nil {
		return err
	}
	if err = saveAccount(t, e.From, e.To); err != nil {
		return err
	}
	value := bigFromStr(e.Value)
	if value.Sign() <= 0 {
		log.Debugf("忽略数量为0的资产转移: %v %v", e.TxHash, e.LogIndex)
		return nil
	}
	mint, burn := e.From == zeroAddress, e.To == zeroAddress
	if mint {
		if err = t.Model(&model.Token{}).Where("id=?", token.ID).Updates(map[string]interface{}{
			"creator": e.To, "updated_at": e.Timestamp,
		}).Error; err != nil {
			return err
		}
		if err = balanceAdd(t, c.Address, token.ID, nil, value); err != nil {
			return err
		}
	} else {
		escrow, err := isMarketplace(t, e.From)
		if err != nil {
			return err
		}
		if !escrow {
			from := e.From
			if err = balanceAdd(t, c.Address, token.ID, &from, new(big.Int).Neg(value)); err != nil {
				return err
			}
		}
	}
	if burn {
		if err = balanceAdd(t, c.Address, token.ID, nil, new(big.Int).Neg(value)); err != nil {
			return err
		}
	} else {
		escrow, err := isMarketplace(t, e.To)
		if err != nil {
			return err
		}
		if !escrow {
			to := e.To
			if err = balanceAdd(t, c.Address, token.ID, &to, value); err != nil {
				return err
			}
		}
	}
	activityType := types.ActivityTransferred
	if mint {
		activityType = types.ActivityMinted
	}
	id := fmt.Sprintf("%v-%v", e.TxHash, e.LogIndex)
	if e.SubIndex > 0 {
		id = fmt.Sprintf("%v-%v", id, e.SubIndex)
	}
	return t.Create(&model.Activity{
		ID:          id,
		Type:        activityType,
		From:        e.From,
		To:          e.To,
		Collection:  c.Address,
		Token:       token.ID,
		Quantity:    e.Value,
		BlockNumber: e.BlockNumber,
		TxHash:      e.TxHash,
		Timestamp:   e.Timestamp,
	}).Error
}
