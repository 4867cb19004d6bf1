package eth

import (
	"context"
	"fmt"
	"math/big"

	"github.com/pumasi/core/src/utils/model"

	"github.com/ethereum/go-ethereum/common"
)

func parseId(id string) (out *big.Int, err error) {
	out, ok := new(big.Int).SetString(id, 10)
	if !ok {
		err = fmt.Errorf("malformed id: %s", id)
	}
	return
}

var resolutionToDecision = map[model.Resolution]uint8{
	model.ResolutionFullToClient:     0,
	model.ResolutionFullToFreelancer: 1,
	model.ResolutionSplit:            2,
}

func (self *Client) CreateJob(ctx context.Context, metadataRef string, budget *big.Int, deadline uint64) (handle TxHandle, err error) {
	return self.submit(ctx, self.jobFactory, jobFactoryAbi, "createJob", metadataRef, budget, deadline)
}

func (self *Client) SubmitApplication(ctx context.Context, jobId string, proposalRef string) (handle TxHandle, err error) {
	id, err := parseId(jobId)
	if err != nil {
		return
	}
	return self.submit(ctx, self.applicationRegistry, applicationRegistryAbi, "submitApplication", id, proposalRef)
}

func (self *Client) AcceptApplication(ctx context.Context, applicationId string) (handle TxHandle, err error) {
	id, err := parseId(applicationId)
	if err != nil {
		return
	}
	return self.submit(ctx, self.applicationRegistry, applicationRegistryAbi, "acceptApplication", id)
}

func (self *Client) AssignFreelancer(ctx context.Context, jobId string, freelancer string) (handle TxHandle, err error) {
	id, err := parseId(jobId)
	if err != nil {
		return
	}
	return self.submit(ctx, self.jobFactory, jobFactoryAbi, "assignFreelancer", id, common.HexToAddress(freelancer))
}

func (self *Client) SubmitDeliverable(ctx context.Context, jobId string, deliverableRef string) (handle TxHandle, err error) {
	id, err := parseId(jobId)
	if err != nil {
		return
	}
	return self.submit(ctx, self.jobFactory, jobFactoryAbi, "submitDeliverable", id, deliverableRef)
}

func (self *Client) ApproveDelivery(ctx context.Context, jobId string) (handle TxHandle, err error) {
	id, err := parseId(jobId)
	if err != nil {
		return
	}
	return self.submit(ctx, self.jobFactory, jobFactoryAbi, "approveDelivery", id)
}

func (self *Client) CancelJob(ctx context.Context, jobId string) (handle TxHandle, err error) {
	id, err := parseId(jobId)
	if err != nil {
		return
	}
	return self.submit(ctx, self.jobFactory, jobFactoryAbi, "cancelJob", id)
}

func (self *Client) RaiseDispute(ctx context.Context, jobId string, reasonRef string) (handle TxHandle, err error) {
	id, err := parseId(jobId)
	if err != nil {
		return
	}
	return self.submit(ctx, self.arbitration, arbitrationAbi, "raiseDispute", id, reasonRef)
}

func (self *Client) SubmitEvidence(ctx context.Context, disputeId string, evidenceRef string) (handle TxHandle, err error) {
	id, err := parseId(disputeId)
	if err != nil {
		return
	}
	return self.submit(ctx, self.arbitration, arbitrationAbi, "submitEvidence", id, evidenceRef)
}

func (self *Client) CastVote(ctx context.Context, disputeId string, decision model.Resolution, rationaleRef string) (handle TxHandle, err error) {
	id, err := parseId(disputeId)
	if err != nil {
		return
	}
	code, ok := resolutionToDecision[decision]
	if !ok {
		err = fmt.Errorf("unknown decision: %s", decision)
		return
	}
	return self.submit(ctx, self.arbitration, arbitrationAbi, "castVote", id, code, rationaleRef)
}
