package models

// EmotionTagID identifies one of the closed set of emotion tags a post can
// carry. The set is fixed; the store never sees any other value.
type EmotionTagID string

const (
	TagHeartbreak  EmotionTagID = "heartbreak"
	TagUnsentLove  EmotionTagID = "unsent-love"
	TagGuilt       EmotionTagID = "guilt"
	TagDreams      EmotionTagID = "dreams"
	TagHope        EmotionTagID = "hope"
	TagLastMessage EmotionTagID = "last-message"
)

// EmotionTag carries the presentation metadata for a tag. It is lookup data
// for clients; only the id is ever persisted on a post.
type EmotionTag struct {
	ID       EmotionTagID `json:"id"`
	Label    string       `json:"label"`
	Icon     string       `json:"icon"`
	Gradient string       `json:"gradient"`
}

// EmotionTags is the full catalog in display order.
var EmotionTags = []EmotionTag{
	{ID: TagHeartbreak, Label: "Heartbreak", Icon: "🖤", Gradient: "from-red-500 to-rose-500"},
	{ID: TagUnsentLove, Label: "Unsent Love", Icon: "💌", Gradient: "from-pink-400 to-fuchsia-400"},
	{ID: TagGuilt, Label: "Guilt", Icon: "😞", Gradient: "from-yellow-400 to-amber-500"},
	{ID: TagDreams, Label: "Dreams", Icon: "☁️", Gradient: "from-sky-400 to-cyan-400"},
	{ID: TagHope, Label: "Hope", Icon: "✨", Gradient: "from-green-400 to-emerald-500"},
	{ID: TagLastMessage, Label: "Last Messages", Icon: "💬", Gradient: "from-indigo-400 to-violet-500"},
}

// ValidTag reports whether id belongs to the closed enumeration.
func ValidTag(id EmotionTagID) bool {
	for _, t := range EmotionTags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// TagIDs returns the ordered list of tag identifiers.
func TagIDs() []EmotionTagID {
	ids := make([]EmotionTagID, len(EmotionTags))
	for i, t := range EmotionTags {
		ids[i] = t.ID
	}
	return ids
}
