// Package backend 区块扫描主循环，顺序推进，失败重试
package backend

import (
	"context"
	"time"

	"marketscan/conf"
	"marketscan/log"
	"marketscan/node"
	"marketscan/service"
)

func Run(client *node.Client, interval time.Duration) {
	go mainLoop(client, interval)
}

func mainLoop(client *node.Client, interval time.Duration) {
	number := uint64(conf.StartBlock)
	if last := service.LastBlock(); last >= number {
		number = last + 1
	}
	log.Infof("starting event scan from block %v", number)
	for {
		max, err := client.BlockNumber(context.Background())
		if err != nil {
			log.Errorf("get block height error: %v", err)
			time.Sleep(interval)
			continue
		}
		if max < number {
			time.Sleep(interval)
			continue
		}
		stop := number + uint64(conf.BatchSize) - 1
		if stop > max {
			stop = max
		}
		blocks, err := decode(client, context.Background(), number, stop)
		if err != nil {
			log.Errorf("block %v-%v parsing error: %v", number, stop, err)
			time.Sleep(interval)
			continue
		}
		insertErr := false
		for _, parsed := range blocks {
			if err = service.EventsInsert(parsed); err != nil {
				log.Errorf("block %v insert error: %v", parsed.Number, err)
				insertErr = true
				break
			}
			number = parsed.Number + 1
		}
		if insertErr {
			time.Sleep(interval)
		}
	}
}
