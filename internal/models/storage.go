package models

// FileType classifies what a stored blob contains
type FileType string

const (
	// FileTypeImage represents a generic uploaded image
	FileTypeImage FileType = "image"
	// FileTypeSignature represents a signature image captured at signing
	FileTypeSignature FileType = "signature"
	// FileTypePDF represents a rendered document
	FileTypePDF FileType = "pdf"
)

// RelatedModel is the closed set of entity kinds a stored blob can be
// linked to. It replaces by-name model lookup with a compile-time tag.
type RelatedModel string

const (
	// RelatedUser links a blob to a user
	RelatedUser RelatedModel = "user"
	// RelatedCompany links a blob to a company
	RelatedCompany RelatedModel = "company"
	// RelatedClient links a blob to a client
	RelatedClient RelatedModel = "client"
	// RelatedProject links a blob to a project
	RelatedProject RelatedModel = "project"
	// RelatedDeliveryNote links a blob to a delivery note
	RelatedDeliveryNote RelatedModel = "deliverynote"
)

// StorageEntry records a blob persisted to the content-addressed store.
// Every upload the service performs leaves one of these behind, so blobs
// remain traceable to the entity they belong to.
type StorageEntry struct {
	Model
	URL          string       `json:"url" gorm:"Column:url"`
	Filename     string       `json:"filename" gorm:"Column:filename"`
	FileType     FileType     `json:"file_type" gorm:"Column:file_type;default:'image'"`
	IpfsHash     string       `json:"ipfs_hash" gorm:"Column:ipfs_hash"`
	User         *User        `json:"-" gorm:"foreignKey:UserID"`
	UserID       uint         `json:"user_id" gorm:"Column:user_id;index"`
	RelatedModel RelatedModel `json:"related_model" gorm:"Column:related_model"`
	RelatedID    uint         `json:"related_id" gorm:"Column:related_id;index"`
}
