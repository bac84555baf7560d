package service

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketscan/common/model"
	"marketscan/common/types"
)

const zeroAddress = types.Address("0x0000000000000000000000000000000000000000")

func listingID(marketplace types.Address, listingId types.BigInt) string {
	return fmt.Sprintf("%v:%v", marketplace, listingId)
}

func tokenID(collection types.Address, tokenId types.BigInt) string {
	return fmt.Sprintf("%v:%v", collection, tokenId)
}

// bigFromStr 十进制大数解析，非法输入作0
func bigFromStr(b types.BigInt) *big.Int {
	v, ok := new(big.Int).SetString(string(b), 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

// toDecimal 十进制大数字符串原样转高精度小数，不做单位换算
func toDecimal(b types.BigInt) decimal.Decimal {
	return decimal.NewFromBigInt(bigFromStr(b), 0)
}

// toAmount 链上wei值换算成带18位小数的金额
func toAmount(b types.BigInt) decimal.Decimal {
	return decimal.NewFromBigInt(bigFromStr(b), -18)
}

// saveAccount 惰性登记账户地址，零地址不登记
func saveAccount(t *gorm.DB, addrs ...types.Address) error {
	for _, addr := range addrs {
		if addr == "" || addr == zeroAddress {
			continue
		}
		err := t.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Account{Address: addr}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
