package conf

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// default allocation
var (
	ChainUrl               = "http://127.0.0.1:8545"
	MarketplaceAddr        = "0xdef1e37f7a1b4c2f1b1f67d0d1208ea8bbd7b60d"
	Interval         int64 = 10
	StartBlock       int64 = 0
	BatchSize        int64 = 100
	MysqlDsn               = "root:123456@tcp(127.0.0.1:3306)/marketscan"
	ResetDB                = false
)

func init() {
	// set log printout to stdout instead of stderr
	log.SetOutput(os.Stdout)

	// read configuration to override default value
	setConf()

	// check configuration
	if Interval < 1 {
		panic("conf.Interval < 1")
	}
	if BatchSize < 1 {
		panic("conf.BatchSize < 1")
	}
}

func setConf() {
	err := godotenv.Load("scan.env")
	if err != nil {
		log.Println("Failed to load environment variables from .env file,", err)
	}

	if chainUrl := os.Getenv("CHAIN_URL"); chainUrl != "" {
		ChainUrl = chainUrl
	}
	if marketplace := os.Getenv("MARKETPLACE_ADDR"); marketplace != "" {
		MarketplaceAddr = marketplace
	}
	if interval := os.Getenv("INTERVAL"); interval != "" {
		Interval, err = strconv.ParseInt(interval, 0, 64)
		if err != nil {
			panic(err)
		}
	}
	if startBlock := os.Getenv("START_BLOCK"); startBlock != "" {
		StartBlock, err = strconv.ParseInt(startBlock, 0, 64)
		if err != nil {
			panic(err)
		}
	}
	if batchSize := os.Getenv("BATCH_SIZE"); batchSize != "" {
		BatchSize, err = strconv.ParseInt(batchSize, 0, 64)
		if err != nil {
			panic(err)
		}
	}
	if mysqlDsn := os.Getenv("MYSQL_DSN"); mysqlDsn != "" {
		MysqlDsn = mysqlDsn
	}
	if resetDB := os.Getenv("RESET_DB"); resetDB != "" {
		ResetDB = resetDB == "true"
	}
}
