package content

// BlockType identifies how a content block is consumed.
type BlockType string

const (
	TypeText        BlockType = "text"
	TypeVideo       BlockType = "video"
	TypeInteractive BlockType = "interactive"
	TypeAssessment  BlockType = "assessment"
)

// Block is the slice of the course model the engine needs: identity, type,
// and how long a learner is expected to spend on it. The full course/content
// model lives in the calling platform.
type Block struct {
	ID string

	Type BlockType

	// EstimatedDurationSecs is the author-declared duration in seconds.
	EstimatedDurationSecs int

	// WordCount is set for text blocks so expected reading time can be
	// derived. Zero means unknown.
	WordCount int
}
