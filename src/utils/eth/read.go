package eth

import (
	"context"
	"math/big"
	"time"

	"github.com/pumasi/core/src/utils/model"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// JobState is the raw on-chain record, before any metadata resolution
type JobState struct {
	Client      common.Address
	Freelancer  common.Address
	Status      model.JobStatus
	Budget      string
	Deadline    time.Time
	MetadataRef string
}

// GetJob reads the current chain state of one job. Used as the fallback
// projection when the indexer is unreachable.
func (self *Client) GetJob(ctx context.Context, jobId string) (out *JobState, err error) {
	id, err := parseId(jobId)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, self.config.Ledger.RequestTimeout)
	defer cancel()

	data, err := jobFactoryAbi.Pack("getJob", id)
	if err != nil {
		return
	}

	raw, err := self.client.CallContract(ctx, ethereum.CallMsg{
		From: self.from,
		To:   &self.jobFactory,
		Data: data,
	}, nil)
	if err != nil {
		err = decodeRevert(err)
		return
	}

	values, err := jobFactoryAbi.Unpack("getJob", raw)
	if err != nil {
		return
	}

	out = &JobState{
		Client:      values[0].(common.Address),
		Freelancer:  values[1].(common.Address),
		Status:      model.JobStatusFromLedger(values[2].(uint8)),
		Budget:      values[3].(*big.Int).String(),
		Deadline:    time.Unix(int64(values[4].(uint64)), 0).UTC(),
		MetadataRef: values[5].(string),
	}
	return
}
