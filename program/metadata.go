package program

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	sgo "github.com/gagliardetto/solana-go"
)

var TokenMetadataProgramID = sgo.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

const METADATA_SEED = "metadata"

const INSTRUCTION_CREATE_METADATA_ACCOUNT_V3 uint8 = 33

const (
	MAX_NAME_LENGTH   = 32
	MAX_SYMBOL_LENGTH = 10
	MAX_URI_LENGTH    = 200
	MAX_BASIS_POINTS  = 10000
)

type Creator struct {
	Address  sgo.PublicKey
	Verified bool
	Share    uint8
}

type Collection struct {
	Verified bool
	Key      sgo.PublicKey
}

type Uses struct {
	UseMethod uint8
	Remaining uint64
	Total     uint64
}

// DataV2 mirrors the token metadata program's DataV2 argument.
type DataV2 struct {
	Name                 string
	Symbol               string
	Uri                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator
	Collection           *Collection
	Uses                 *Uses
}

func (d DataV2) Check() error {
	if MAX_NAME_LENGTH < len(d.Name) {
		return fmt.Errorf("name longer than %d bytes", MAX_NAME_LENGTH)
	}
	if MAX_SYMBOL_LENGTH < len(d.Symbol) {
		return fmt.Errorf("symbol longer than %d bytes", MAX_SYMBOL_LENGTH)
	}
	if MAX_URI_LENGTH < len(d.Uri) {
		return fmt.Errorf("uri longer than %d bytes", MAX_URI_LENGTH)
	}
	if MAX_BASIS_POINTS < d.SellerFeeBasisPoints {
		return fmt.Errorf("seller fee above %d basis points", MAX_BASIS_POINTS)
	}
	var total int
	for _, c := range d.Creators {
		total += int(c.Share)
	}
	if 0 < len(d.Creators) && total != 100 {
		return errors.New("creator shares must add up to 100")
	}
	return nil
}

// Creators is None when empty.
func (d DataV2) MarshalWithEncoder(enc *bin.Encoder) (err error) {
	if err = enc.WriteString(d.Name); err != nil {
		return
	}
	if err = enc.WriteString(d.Symbol); err != nil {
		return
	}
	if err = enc.WriteString(d.Uri); err != nil {
		return
	}
	if err = enc.WriteUint16(d.SellerFeeBasisPoints, bin.LE); err != nil {
		return
	}
	if len(d.Creators) == 0 {
		err = enc.WriteOption(false)
	} else {
		if err = enc.WriteOption(true); err != nil {
			return
		}
		if err = enc.WriteUint32(uint32(len(d.Creators)), bin.LE); err != nil {
			return
		}
		for _, c := range d.Creators {
			if err = enc.WriteBytes(c.Address[:], false); err != nil {
				return
			}
			if err = enc.WriteBool(c.Verified); err != nil {
				return
			}
			if err = enc.WriteUint8(c.Share); err != nil {
				return
			}
		}
	}
	if err != nil {
		return
	}
	if d.Collection == nil {
		err = enc.WriteOption(false)
	} else {
		if err = enc.WriteOption(true); err != nil {
			return
		}
		if err = enc.WriteBool(d.Collection.Verified); err != nil {
			return
		}
		err = enc.WriteBytes(d.Collection.Key[:], false)
	}
	if err != nil {
		return
	}
	if d.Uses == nil {
		return enc.WriteOption(false)
	}
	if err = enc.WriteOption(true); err != nil {
		return
	}
	if err = enc.WriteUint8(d.Uses.UseMethod); err != nil {
		return
	}
	if err = enc.WriteUint64(d.Uses.Remaining, bin.LE); err != nil {
		return
	}
	return enc.WriteUint64(d.Uses.Total, bin.LE)
}

func MetadataAccount(metadataProgram sgo.PublicKey, mint sgo.PublicKey) (sgo.PublicKey, uint8, error) {
	return sgo.FindProgramAddress([][]byte{
		[]byte(METADATA_SEED),
		metadataProgram.Bytes(),
		mint.Bytes(),
	}, metadataProgram)
}

type CreateMetadataArgs struct {
	// Program defaults to TokenMetadataProgramID.
	Program         sgo.PublicKey
	Mint            sgo.PublicKey
	MintAuthority   sgo.PublicKey
	Payer           sgo.PublicKey
	UpdateAuthority sgo.PublicKey
	// UpdateAuthoritySigner marks the update authority as a transaction signer.
	UpdateAuthoritySigner bool
	Data                  DataV2
	IsMutable             bool
}

func EncodeCreateMetadataV3(data DataV2, isMutable bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint8(INSTRUCTION_CREATE_METADATA_ACCOUNT_V3); err != nil {
		return nil, err
	}
	if err := data.MarshalWithEncoder(enc); err != nil {
		return nil, err
	}
	if err := enc.WriteBool(isMutable); err != nil {
		return nil, err
	}
	// collection_details: None
	if err := enc.WriteOption(false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildCreateMetadata(args interface{}) (sgo.Instruction, error) {
	a, ok := args.(CreateMetadataArgs)
	if !ok {
		return nil, badArgs(KIND_METADATA_CREATE, args)
	}
	if err := a.Data.Check(); err != nil {
		return nil, err
	}
	programId := a.Program
	if programId.IsZero() {
		programId = TokenMetadataProgramID
	}
	metadata, _, err := MetadataAccount(programId, a.Mint)
	if err != nil {
		return nil, err
	}
	data, err := EncodeCreateMetadataV3(a.Data, a.IsMutable)
	if err != nil {
		return nil, err
	}
	updateAuthority := sgo.Meta(a.UpdateAuthority)
	if a.UpdateAuthoritySigner {
		updateAuthority = updateAuthority.SIGNER()
	}
	return sgo.NewInstruction(programId, sgo.AccountMetaSlice{
		sgo.Meta(metadata).WRITE(),
		sgo.Meta(a.Mint),
		sgo.Meta(a.MintAuthority).SIGNER(),
		sgo.Meta(a.Payer).WRITE().SIGNER(),
		updateAuthority,
		sgo.Meta(sgo.SystemProgramID),
	}, data), nil
}
