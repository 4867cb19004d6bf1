package dispute

import (
	"fmt"
	"strings"

	"github.com/pumasi/core/src/utils/model"
)

func (self *Coordinator) validateEvidenceText(text string) (err error) {
	length := len(strings.TrimSpace(text))
	min := self.config.Dispute.EvidenceMinLength
	max := self.config.Dispute.EvidenceMaxLength
	if length < min {
		return fmt.Errorf("description too short, at least %d characters required", min)
	}
	if length > max {
		return fmt.Errorf("description too long, at most %d characters allowed", max)
	}
	return nil
}

func (self *Coordinator) validateVote(decision model.Resolution, rationale string) (err error) {
	switch decision {
	case model.ResolutionFullToClient, model.ResolutionFullToFreelancer, model.ResolutionSplit:
	default:
		return fmt.Errorf("a vote requires a decision")
	}

	length := len(strings.TrimSpace(rationale))
	min := self.config.Dispute.RationaleMinLength
	max := self.config.Dispute.RationaleMaxLength
	if length < min {
		return fmt.Errorf("rationale too short, at least %d characters required", min)
	}
	if length > max {
		return fmt.Errorf("rationale too long, at most %d characters allowed", max)
	}
	return nil
}
