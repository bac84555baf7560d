package backend

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"

	"marketscan/common/model"
	"marketscan/common/types"
	"marketscan/common/utils"
	"marketscan/conf"
	"marketscan/node"
)

// decode 解析一段区块的事件，返回按区块号有序的事件批
func decode(client *node.Client, ctx context.Context, from, to uint64) ([]*model.Parsed, error) {
	count := to - from + 1
	headers := make([]*node.Header, count)
	batch := make([]rpc.BatchElem, count)
	for i := range batch {
		batch[i] = rpc.BatchElem{
			Method: "eth_getBlockByNumber",
			Args:   []interface{}{types.Uint64(from + uint64(i)).Hex(), false},
			Result: &headers[i],
		}
	}
	if err := client.BatchCallContext(ctx, batch); err != nil {
		return nil, err
	}
	blocks := make([]*model.Parsed, count)
	for i, header := range headers {
		if batch[i].Error != nil {
			return nil, batch[i].Error
		}
		if header == nil {
			return nil, fmt.Errorf("block %v %w", from+uint64(i), node.NotFound)
		}
		blocks[i] = &model.Parsed{
			Number:    uint64(header.Number),
			Hash:      header.Hash,
			Timestamp: uint64(header.Timestamp),
		}
	}

	logs, err := client.FilterLogs(ctx, map[string]interface{}{
		"fromBlock": types.Uint64(from).Hex(),
		"toBlock":   types.Uint64(to).Hex(),
		"topics":    []interface{}{utils.ScanTopics()},
	})
	if err != nil {
		return nil, err
	}
	marketplace, err := utils.ParseAddress([]byte(conf.MarketplaceAddr))
	if err != nil {
		return nil, fmt.Errorf("marketplace address: %v", err)
	}
	for _, eventLog := range logs {
		if eventLog.Removed {
			continue
		}
		i := uint64(eventLog.BlockNumber) - from
		if i >= count {
			continue
		}
		parsed := blocks[i]
		var events []model.Event
		if eventLog.Address == marketplace {
			if event := utils.UnpackMarketplaceLog(eventLog); event != nil {
				events = []model.Event{event}
			}
		} else {
			events = utils.UnpackTransferLog(eventLog)
		}
		for _, event := range events {
			event.Head().Timestamp = parsed.Timestamp
			parsed.Events = append(parsed.Events, event)
		}
	}
	return blocks, nil
}
