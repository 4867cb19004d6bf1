package eth

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Minimal ABI fragments, just the functions and errors this client touches

const jobFactoryABI = `[
	{"type":"function","name":"createJob","stateMutability":"nonpayable","inputs":[{"name":"metadataRef","type":"string"},{"name":"budget","type":"uint256"},{"name":"deadline","type":"uint64"}],"outputs":[{"name":"jobId","type":"uint256"}]},
	{"type":"function","name":"assignFreelancer","stateMutability":"nonpayable","inputs":[{"name":"jobId","type":"uint256"},{"name":"freelancer","type":"address"}],"outputs":[]},
	{"type":"function","name":"submitDeliverable","stateMutability":"nonpayable","inputs":[{"name":"jobId","type":"uint256"},{"name":"deliverableRef","type":"string"}],"outputs":[]},
	{"type":"function","name":"approveDelivery","stateMutability":"nonpayable","inputs":[{"name":"jobId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"cancelJob","stateMutability":"nonpayable","inputs":[{"name":"jobId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"getJob","stateMutability":"view","inputs":[{"name":"jobId","type":"uint256"}],"outputs":[{"name":"client","type":"address"},{"name":"freelancer","type":"address"},{"name":"status","type":"uint8"},{"name":"budget","type":"uint256"},{"name":"deadline","type":"uint64"},{"name":"metadataRef","type":"string"}]},
	{"type":"error","name":"InvalidJob","inputs":[]},
	{"type":"error","name":"JobNotOpen","inputs":[]},
	{"type":"error","name":"NotJobClient","inputs":[]},
	{"type":"error","name":"NotJobFreelancer","inputs":[]}
]`

const applicationRegistryABI = `[
	{"type":"function","name":"submitApplication","stateMutability":"nonpayable","inputs":[{"name":"jobId","type":"uint256"},{"name":"proposalRef","type":"string"}],"outputs":[{"name":"applicationId","type":"uint256"}]},
	{"type":"function","name":"acceptApplication","stateMutability":"nonpayable","inputs":[{"name":"applicationId","type":"uint256"}],"outputs":[]},
	{"type":"error","name":"InvalidJob","inputs":[]},
	{"type":"error","name":"JobNotOpen","inputs":[]},
	{"type":"error","name":"CannotApplyToOwnJob","inputs":[]},
	{"type":"error","name":"AlreadyApplied","inputs":[]},
	{"type":"error","name":"ApplicationNotPending","inputs":[]}
]`

const arbitrationABI = `[
	{"type":"function","name":"raiseDispute","stateMutability":"nonpayable","inputs":[{"name":"jobId","type":"uint256"},{"name":"reasonRef","type":"string"}],"outputs":[{"name":"disputeId","type":"uint256"}]},
	{"type":"function","name":"submitEvidence","stateMutability":"nonpayable","inputs":[{"name":"disputeId","type":"uint256"},{"name":"evidenceRef","type":"string"}],"outputs":[]},
	{"type":"function","name":"castVote","stateMutability":"nonpayable","inputs":[{"name":"disputeId","type":"uint256"},{"name":"decision","type":"uint8"},{"name":"rationaleRef","type":"string"}],"outputs":[]},
	{"type":"error","name":"EvidenceDeadlinePassed","inputs":[]},
	{"type":"error","name":"VoteDeadlinePassed","inputs":[]},
	{"type":"error","name":"AlreadyVoted","inputs":[]},
	{"type":"error","name":"NotArbitrator","inputs":[]},
	{"type":"error","name":"DisputeResolved","inputs":[]}
]`

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}

var (
	jobFactoryAbi          = mustParseABI(jobFactoryABI)
	applicationRegistryAbi = mustParseABI(applicationRegistryABI)
	arbitrationAbi         = mustParseABI(arbitrationABI)
)
