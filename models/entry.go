package models

// Category identifies the semantic kind of a vault entry. It controls which
// secret fields are meaningful for the entry and how clients render it.
type Category string

const (
	CategoryPassword   Category = "password"
	CategoryNote       Category = "note"
	CategoryFile       Category = "file"
	CategoryOTP        Category = "otp"
	CategoryCreditCard Category = "credit-card"
)

// Attachment is a binary payload attached to a vault entry. Data is carried
// base64-encoded inside the entry and is encrypted together with the rest of
// the vault, so the server never sees attachment contents or names.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	Data string `json:"data"`
}

// VaultEntry is a single secret record inside a vault. Identity is ID;
// uniqueness is enforced within one vault. The entry only ever exists in
// plaintext on the client while the vault is unlocked.
type VaultEntry struct {
	// ID is the opaque, client-generated identifier of the entry.
	ID string `json:"id"`

	// Category defines which of the secret fields below are meaningful.
	Category Category `json:"category"`

	// Title is the human-readable display name of the entry.
	Title string `json:"title"`

	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
	CardNumber string `json:"cardNumber,omitempty"`
	CVV        string `json:"cvv,omitempty"`
	TOTPSecret string `json:"totpSecret,omitempty"`
	URL        string `json:"url,omitempty"`
	Notes      string `json:"notes,omitempty"`

	// Tags has set semantics: order is irrelevant and duplicates are not
	// allowed. Merge resolution unions tags from both sides.
	Tags []string `json:"tags,omitempty"`

	// Attachments keeps insertion order for UX purposes.
	Attachments []Attachment `json:"attachments,omitempty"`

	// CreatedAt and UpdatedAt are unix-millisecond timestamps maintained by
	// the editing client. UpdatedAt drives conflict classification.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// Equal reports whether two entries are identical field-for-field, including
// timestamps. Used by conflict detection: any divergence on a shared ID is a
// both-modified conflict.
func (e VaultEntry) Equal(other VaultEntry) bool {
	if e.ID != other.ID ||
		e.Category != other.Category ||
		e.Title != other.Title ||
		e.Username != other.Username ||
		e.Password != other.Password ||
		e.CardNumber != other.CardNumber ||
		e.CVV != other.CVV ||
		e.TOTPSecret != other.TOTPSecret ||
		e.URL != other.URL ||
		e.Notes != other.Notes ||
		e.CreatedAt != other.CreatedAt ||
		e.UpdatedAt != other.UpdatedAt {
		return false
	}
	if !tagSetsEqual(e.Tags, other.Tags) {
		return false
	}
	if len(e.Attachments) != len(other.Attachments) {
		return false
	}
	for i := range e.Attachments {
		if e.Attachments[i] != other.Attachments[i] {
			return false
		}
	}
	return true
}

// tagSetsEqual compares tags as sets, ignoring order.
func tagSetsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, t := range a {
		seen[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := seen[t]; !ok {
			return false
		}
	}
	return true
}
