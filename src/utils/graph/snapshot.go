package graph

// Raw snapshot payloads, mirroring the subgraph entities. Statuses keep
// the indexer's enum spellings until the transform layer maps them.

type JobSnapshot struct {
	Id           string                `json:"id"`
	Client       string                `json:"client"`
	Freelancer   string                `json:"freelancer"`
	Status       string                `json:"status"`
	Budget       string                `json:"budget"`
	Deadline     int64                 `json:"deadline,string"`
	CreatedAt    int64                 `json:"createdAt,string"`
	UpdatedAt    int64                 `json:"updatedAt,string"`
	MetadataRef  string                `json:"metadataRef"`
	Milestones   []MilestoneSnapshot   `json:"milestones"`
	Applications []ApplicationSnapshot `json:"applications"`
}

type MilestoneSnapshot struct {
	Index  int    `json:"index"`
	Amount string `json:"amount"`
	Status string `json:"status"`
}

type ApplicationSnapshot struct {
	Id          string `json:"id"`
	JobId       string `json:"jobId"`
	Freelancer  string `json:"freelancer"`
	Status      string `json:"status"`
	ProposalRef string `json:"proposalRef"`
	CreatedAt   int64  `json:"createdAt,string"`
}

type DisputeSnapshot struct {
	Id                    string         `json:"id"`
	JobId                 string         `json:"jobId"`
	Raiser                string         `json:"raiser"`
	Status                string         `json:"status"`
	Resolution            string         `json:"resolution"`
	ClientEvidenceRef     string         `json:"clientEvidenceRef"`
	FreelancerEvidenceRef string         `json:"freelancerEvidenceRef"`
	EvidenceDeadline      int64          `json:"evidenceDeadline,string"`
	VoteDeadline          int64          `json:"voteDeadline,string"`
	CreatedAt             int64          `json:"createdAt,string"`
	ResolvedAt            int64          `json:"resolvedAt,string"`
	Votes                 []VoteSnapshot `json:"votes"`
}

type VoteSnapshot struct {
	Arbitrator   string `json:"arbitrator"`
	Decision     string `json:"decision"`
	RationaleRef string `json:"rationaleRef"`
	Timestamp    int64  `json:"timestamp,string"`
}

type ReviewSnapshot struct {
	Id         string `json:"id"`
	JobId      string `json:"jobId"`
	Reviewer   string `json:"reviewer"`
	Reviewee   string `json:"reviewee"`
	Rating     int    `json:"rating"`
	CommentRef string `json:"commentRef"`
	CreatedAt  int64  `json:"createdAt,string"`
}

type UserSnapshot struct {
	Address         string `json:"address"`
	IsArbitrator    bool   `json:"isArbitrator"`
	ArbitratorStake string `json:"arbitratorStake"`
	CompletedJobs   int    `json:"completedJobs"`
	AverageRating   string `json:"averageRating"`
	ProfileRef      string `json:"profileRef"`
	JoinedAt        int64  `json:"joinedAt,string"`
}
