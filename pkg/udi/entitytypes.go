package udi

// Well-known entity type names.
const (
	EntityTypeDataType              = "data-type"
	EntityTypeDataTypeContainer     = "data-type-container"
	EntityTypeDictionaryItem        = "dictionary-item"
	EntityTypeDocument              = "document"
	EntityTypeDocumentBlueprint     = "document-blueprint"
	EntityTypeDocumentType          = "document-type"
	EntityTypeDocumentTypeContainer = "document-type-container"
	EntityTypeElement               = "element"
	EntityTypeLanguage              = "language"
	EntityTypeMedia                 = "media"
	EntityTypeMediaType             = "media-type"
	EntityTypeMediaTypeContainer    = "media-type-container"
	EntityTypeMember                = "member"
	EntityTypeMemberGroup           = "member-group"
	EntityTypeMemberType            = "member-type"
	EntityTypeRelationType          = "relation-type"
	EntityTypeTemplate              = "template"
	EntityTypeUser                  = "user"
	EntityTypeUserGroup             = "user-group"
	EntityTypeWebhook               = "webhook"

	EntityTypeMediaFile        = "media-file"
	EntityTypePartialView      = "partial-view"
	EntityTypePartialViewMacro = "partial-view-macro"
	EntityTypeScript           = "script"
	EntityTypeStylesheet       = "stylesheet"
	EntityTypeTemplateFile     = "template-file"
)

// DefaultEntityTypes returns the built-in entity type definitions.
func DefaultEntityTypes() []EntityType {
	return []EntityType{
		{Name: EntityTypeDataType, Kind: KindGUID, Description: "Data type"},
		{Name: EntityTypeDataTypeContainer, Kind: KindGUID, Description: "Data type folder"},
		{Name: EntityTypeDictionaryItem, Kind: KindGUID, Description: "Dictionary item"},
		{Name: EntityTypeDocument, Kind: KindGUID, Description: "Content node"},
		{Name: EntityTypeDocumentBlueprint, Kind: KindGUID, Description: "Content template"},
		{Name: EntityTypeDocumentType, Kind: KindGUID, Description: "Document type"},
		{Name: EntityTypeDocumentTypeContainer, Kind: KindGUID, Description: "Document type folder"},
		{Name: EntityTypeElement, Kind: KindGUID, Description: "Block element"},
		{Name: EntityTypeLanguage, Kind: KindGUID},
		{Name: EntityTypeMedia, Kind: KindGUID, Description: "Media item"},
		{Name: EntityTypeMediaType, Kind: KindGUID},
		{Name: EntityTypeMediaTypeContainer, Kind: KindGUID},
		{Name: EntityTypeMember, Kind: KindGUID, Description: "Site member"},
		{Name: EntityTypeMemberGroup, Kind: KindGUID},
		{Name: EntityTypeMemberType, Kind: KindGUID},
		{Name: EntityTypeRelationType, Kind: KindGUID},
		{Name: EntityTypeTemplate, Kind: KindGUID},
		{Name: EntityTypeUser, Kind: KindGUID, Description: "Back office user"},
		{Name: EntityTypeUserGroup, Kind: KindGUID},
		{Name: EntityTypeWebhook, Kind: KindGUID},

		{Name: EntityTypeMediaFile, Kind: KindString, Description: "Media file path"},
		{Name: EntityTypePartialView, Kind: KindString},
		{Name: EntityTypePartialViewMacro, Kind: KindString},
		{Name: EntityTypeScript, Kind: KindString},
		{Name: EntityTypeStylesheet, Kind: KindString},
		{Name: EntityTypeTemplateFile, Kind: KindString},
	}
}
