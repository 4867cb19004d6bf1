package blob

// JSON shapes of the metadata blobs referenced from chain state

type JobMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Skills      []string `json:"skills"`
}

type ProposalMetadata struct {
	CoverLetter      string   `json:"coverLetter"`
	ProposedTimeline string   `json:"proposedTimeline"`
	PortfolioLinks   []string `json:"portfolioLinks"`
}

type EvidenceMetadata struct {
	Description string   `json:"description"`
	Attachments []string `json:"attachments"`
}

type RationaleMetadata struct {
	Rationale string `json:"rationale"`
}

type ReviewMetadata struct {
	Comment string `json:"comment"`
}

type ProfileMetadata struct {
	Name   string   `json:"name"`
	Bio    string   `json:"bio"`
	Skills []string `json:"skills"`
	Avatar string   `json:"avatar"`
}
