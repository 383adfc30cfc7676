package layout

const (
	FIELD_UPGRADE_AUTHORITY     = "upgrade_authority"
	FIELD_HAS_UPGRADE_AUTHORITY = "has_upgrade_authority"
	FIELD_UPDATE_AUTHORITY      = "update_authority"
	FIELD_DECIMALS              = "decimals"
	FIELD_SUPPLY                = "supply"
)

// ProgramData is the upgradeable BPF loader's ProgramData header:
// u32 variant, u64 deploy slot, Option<Pubkey> upgrade authority.
var ProgramData = Layout{
	Name: "program_data",
	Fields: []Field{
		U32Field("kind", 0),
		U64Field("slot", 4),
		// option tag: 1 when an authority is set
		U8Field(FIELD_HAS_UPGRADE_AUTHORITY, 12),
		PublicKeyField(FIELD_UPGRADE_AUTHORITY, 13),
	},
}

// CoreCollection is the head of an MPL Core collection account: one key
// byte, then the update authority.
var CoreCollection = Layout{
	Name: "core_collection",
	Fields: []Field{
		U8Field("key", 0),
		PublicKeyField(FIELD_UPDATE_AUTHORITY, 1),
	},
}

const MINT_SIZE = 82

// Mint is the SPL token mint account.
var Mint = Layout{
	Name: "mint",
	Fields: []Field{
		U32Field("mint_authority_option", 0),
		PublicKeyField("mint_authority", 4),
		U64Field(FIELD_SUPPLY, 36),
		U8Field(FIELD_DECIMALS, 44),
		BoolField("is_initialized", 45),
		U32Field("freeze_authority_option", 46),
		PublicKeyField("freeze_authority", 50),
	},
}
