package service

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"marketscan/common/model"
	"marketscan/common/utils"
	"marketscan/conf"
)

var DB *gorm.DB

// Client 合约只读探测用的客户端，测试时可替换
var Client utils.ContractClient

// Open 按配置连接MySQL并准备表结构
func Open(client utils.ContractClient) {
	db, err := gorm.Open(mysql.Open(conf.MysqlDsn+"?charset=utf8mb4&parseTime=True&loc=Local"), &gorm.Config{PrepareStmt: true})
	if err != nil {
		panic(err)
	}
	if conf.ResetDB {
		// 重置数据库
		if err = model.DropTable(db); err != nil {
			panic(err)
		}
	}
	if err = Init(db, client); err != nil {
		panic(err)
	}
}

// Init 同步表结构到数据库并初始化查询缓存，测试用sqlite调这里
func Init(db *gorm.DB, client utils.ContractClient) error {
	DB, Client = db, client
	// 对比数据库和代码中的结构，并执行DDL操作
	if err := model.Migrate(db); err != nil {
		return err
	}
	return initCache()
}
