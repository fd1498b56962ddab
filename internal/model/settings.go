package model

// ExtraSettings is the single canonical bundle of effective flags for
// one conversion request. It is consumed by the Preprocessor and by
// every target emitter; nothing downstream re-derives these values
// from query parameters itself.
type ExtraSettings struct {
	TFO              Tribool
	UDP              Tribool
	SkipCertVerify   Tribool
	TLS13            Tribool

	AddEmoji          bool
	RemoveEmoji       bool
	AppendProxyType   bool
	NodelistMode      bool

	EnableRuleGenerator     bool
	OverwriteOriginalRules  bool
	ManagedConfigPrefix     string

	ClashNewFieldName    bool
	ClashScript          bool
	ClashClassicalRuleset bool
	ClashProxiesStyle    string

	FilterDeprecated bool

	SortFlag   bool
	SortScript string

	EmojiArray  []EmojiRule
	RenameArray []RenameRule

	Authorized    bool
	SurgeSSRPath  string
}

// RenameRule is one (match, replacement) pair applied in order by the
// Preprocessor's rename stage.
type RenameRule struct {
	Match       string
	Replacement string
}

// EmojiRule is one (match, emoji) pair applied by the Preprocessor's
// emoji-add stage; the first rule whose Match matches a remark has
// its Emoji prepended.
type EmojiRule struct {
	Match string
	Emoji string
}
