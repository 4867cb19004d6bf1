package eth

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/rpc"
)

// CallError is a ledger revert translated for display
type CallError struct {
	Message string
	Raw     string
}

func (self *CallError) Error() string {
	return self.Message
}

// Human messages for the custom errors the contracts are known to throw
var knownErrorMessages = map[string]string{
	"InvalidJob":             "This job no longer exists",
	"JobNotOpen":             "This job is no longer accepting applications",
	"CannotApplyToOwnJob":    "You cannot apply to your own job",
	"AlreadyApplied":         "You have already applied to this job",
	"ApplicationNotPending":  "This application has already been decided",
	"NotJobClient":           "Only the job client can do this",
	"NotJobFreelancer":       "Only the assigned freelancer can do this",
	"EvidenceDeadlinePassed": "The evidence deadline for this dispute has passed",
	"VoteDeadlinePassed":     "The voting deadline for this dispute has passed",
	"AlreadyVoted":           "You have already voted on this dispute",
	"NotArbitrator":          "Only registered arbitrators can vote",
	"DisputeResolved":        "This dispute has already been resolved",
}

// Selector (first 4 bytes of the error id) -> human message, built from
// the known error names across all three contract ABIs
var selectorMessages = buildSelectorMessages(jobFactoryAbi, applicationRegistryAbi, arbitrationAbi)

func buildSelectorMessages(abis ...abi.ABI) map[string]string {
	out := make(map[string]string)
	for _, contractAbi := range abis {
		for name, abiError := range contractAbi.Errors {
			message, ok := knownErrorMessages[name]
			if !ok {
				message = name
			}
			out[hex.EncodeToString(abiError.ID.Bytes()[:4])] = message
		}
	}
	return out
}

const maxRawReasonLen = 120

// decodeRevert maps an RPC error onto a display message. Known custom
// errors get their human text, string reverts are unpacked, anything else
// keeps a truncated raw form.
func decodeRevert(err error) error {
	if err == nil {
		return nil
	}

	dataErr, ok := err.(rpc.DataError)
	if !ok {
		return err
	}

	raw, ok := dataErr.ErrorData().(string)
	if !ok || raw == "" {
		return err
	}

	data, decodeErr := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
	if decodeErr != nil || len(data) < 4 {
		return err
	}

	selector := hex.EncodeToString(data[:4])

	if message, found := selectorMessages[selector]; found {
		return &CallError{Message: message, Raw: raw}
	}

	// Error(string) revert
	if selector == "08c379a0" {
		if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
			return &CallError{Message: reason, Raw: raw}
		}
	}

	if len(raw) > maxRawReasonLen {
		raw = raw[:maxRawReasonLen] + "..."
	}
	return &CallError{Message: fmt.Sprintf("Call reverted: %s", raw), Raw: raw}
}

// IsUserCancellation recognizes a signer declining the request in their
// wallet. Cancellation is a normal outcome, never shown as a failure.
func IsUserCancellation(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	for _, marker := range []string{"user rejected", "user denied", "rejected by user", "denied by user", "request cancelled", "request canceled"} {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}

// Describe resolves any ledger error into a message safe to display
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if callErr, ok := err.(*CallError); ok {
		return callErr.Message
	}
	return err.Error()
}
