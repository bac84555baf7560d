package main

import (
	"time"

	"marketscan/backend"
	"marketscan/conf"
	"marketscan/log"
	"marketscan/node"
	"marketscan/service"
)

func main() {
	client, err := node.Dial(conf.ChainUrl)
	if err != nil {
		log.Fatal("failed to connect chain node:", err)
	}
	service.Open(client)
	backend.Run(client, time.Duration(conf.Interval)*time.Second)
	select {}
}
