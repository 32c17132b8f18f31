package protocol

import (
	"bytes"
	"fmt"

	"github.com/friendwu/qubicly/crypto"
)

// AssetInfo anchors an asset record in the universe tree.
type AssetInfo struct {
	Tick          uint32                   `json:"tick"`
	UniverseIndex uint32                   `json:"universe_index"`
	Siblings      [AssetsDepth]crypto.Hash `json:"siblings"`
}

const assetInfoSize = 8 + AssetsDepth*32

func (a *AssetInfo) decode(dec *Decoder) error {
	var err error
	if a.Tick, err = dec.ReadUint32(); err != nil {
		return err
	}
	if a.UniverseIndex, err = dec.ReadUint32(); err != nil {
		return err
	}
	for i := range a.Siblings {
		if err = dec.Read(a.Siblings[i][:]); err != nil {
			return err
		}
	}
	return nil
}

// IssuedAssetData describes an issuance, 48 bytes on the wire. Name
// and unit of measurement are NUL padded 7 byte slots.
type IssuedAssetData struct {
	PublicKey             crypto.Key `json:"public_key"`
	Type                  uint8      `json:"type"`
	Name                  [7]byte    `json:"-"`
	NumberOfDecimalPlaces int8       `json:"number_of_decimal_places"`
	UnitOfMeasurement     [7]byte    `json:"-"`
}

const issuedAssetDataSize = 48

func (d *IssuedAssetData) decode(dec *Decoder) error {
	var err error
	if err = dec.Read(d.PublicKey[:]); err != nil {
		return err
	}
	if d.Type, err = dec.ReadUint8(); err != nil {
		return err
	}
	if err = dec.Read(d.Name[:]); err != nil {
		return err
	}
	var places uint8
	if places, err = dec.ReadUint8(); err != nil {
		return err
	}
	d.NumberOfDecimalPlaces = int8(places)
	return dec.Read(d.UnitOfMeasurement[:])
}

// AssetName returns the name slot as a string, padding stripped.
func (d *IssuedAssetData) AssetName() string {
	return string(bytes.TrimRight(d.Name[:], "\x00"))
}

// OwnedAssetData is an ownership record chained to its issuance,
// 48 + 48 bytes on the wire.
type OwnedAssetData struct {
	PublicKey             crypto.Key      `json:"public_key"`
	Type                  uint8           `json:"type"`
	Padding               uint8           `json:"-"`
	ManagingContractIndex uint16          `json:"managing_contract_index"`
	IssuanceIndex         uint32          `json:"issuance_index"`
	NumberOfUnits         int64           `json:"number_of_units"`
	IssuedAsset           IssuedAssetData `json:"issued_asset"`
}

func (d *OwnedAssetData) decode(dec *Decoder) error {
	var err error
	if err = dec.Read(d.PublicKey[:]); err != nil {
		return err
	}
	if d.Type, err = dec.ReadUint8(); err != nil {
		return err
	}
	if d.Padding, err = dec.ReadUint8(); err != nil {
		return err
	}
	if d.ManagingContractIndex, err = dec.ReadUint16(); err != nil {
		return err
	}
	if d.IssuanceIndex, err = dec.ReadUint32(); err != nil {
		return err
	}
	if d.NumberOfUnits, err = dec.ReadInt64(); err != nil {
		return err
	}
	return d.IssuedAsset.decode(dec)
}

// PossessedAssetData chains possession through ownership to issuance,
// 48 + 48 + 48 bytes on the wire.
type PossessedAssetData struct {
	PublicKey             crypto.Key     `json:"public_key"`
	Type                  uint8          `json:"type"`
	Padding               uint8          `json:"-"`
	ManagingContractIndex uint16         `json:"managing_contract_index"`
	IssuanceIndex         uint32         `json:"issuance_index"`
	NumberOfUnits         int64          `json:"number_of_units"`
	OwnedAsset            OwnedAssetData `json:"owned_asset"`
}

func (d *PossessedAssetData) decode(dec *Decoder) error {
	var err error
	if err = dec.Read(d.PublicKey[:]); err != nil {
		return err
	}
	if d.Type, err = dec.ReadUint8(); err != nil {
		return err
	}
	if d.Padding, err = dec.ReadUint8(); err != nil {
		return err
	}
	if d.ManagingContractIndex, err = dec.ReadUint16(); err != nil {
		return err
	}
	if d.IssuanceIndex, err = dec.ReadUint32(); err != nil {
		return err
	}
	if d.NumberOfUnits, err = dec.ReadInt64(); err != nil {
		return err
	}
	return d.OwnedAsset.decode(dec)
}

type IssuedAsset struct {
	Data IssuedAssetData `json:"data"`
	Info AssetInfo       `json:"info"`
}

func (a *IssuedAsset) UnmarshalBinary(b []byte) error {
	if len(b) < issuedAssetDataSize+assetInfoSize {
		return fmt.Errorf("%w: issued asset %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	if err := a.Data.decode(dec); err != nil {
		return err
	}
	return a.Info.decode(dec)
}

type OwnedAsset struct {
	Data OwnedAssetData `json:"data"`
	Info AssetInfo      `json:"info"`
}

func (a *OwnedAsset) UnmarshalBinary(b []byte) error {
	if len(b) < 2*issuedAssetDataSize+assetInfoSize {
		return fmt.Errorf("%w: owned asset %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	if err := a.Data.decode(dec); err != nil {
		return err
	}
	return a.Info.decode(dec)
}

type PossessedAsset struct {
	Data PossessedAssetData `json:"data"`
	Info AssetInfo          `json:"info"`
}

func (a *PossessedAsset) UnmarshalBinary(b []byte) error {
	if len(b) < 3*issuedAssetDataSize+assetInfoSize {
		return fmt.Errorf("%w: possessed asset %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	if err := a.Data.decode(dec); err != nil {
		return err
	}
	return a.Info.decode(dec)
}

// Flat records returned by the filtered asset queries. Each record is
// its 48 byte data followed by tick and universe index.

type AssetIssuance struct {
	Asset         IssuedAssetData `json:"asset"`
	Tick          uint32          `json:"tick"`
	UniverseIndex uint32          `json:"universe_index"`
}

func (a *AssetIssuance) UnmarshalBinary(b []byte) error {
	if len(b) < issuedAssetDataSize+8 {
		return fmt.Errorf("%w: asset issuance %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	var err error
	if err = a.Asset.decode(dec); err != nil {
		return err
	}
	if a.Tick, err = dec.ReadUint32(); err != nil {
		return err
	}
	a.UniverseIndex, err = dec.ReadUint32()
	return err
}

type AssetOwnership struct {
	PublicKey             crypto.Key `json:"public_key"`
	Type                  uint8      `json:"type"`
	Padding               uint8      `json:"-"`
	ManagingContractIndex uint16     `json:"managing_contract_index"`
	IssuanceIndex         uint32     `json:"issuance_index"`
	NumberOfUnits         int64      `json:"number_of_units"`
	Tick                  uint32     `json:"tick"`
	UniverseIndex         uint32     `json:"universe_index"`
}

func (a *AssetOwnership) UnmarshalBinary(b []byte) error {
	if len(b) < issuedAssetDataSize+8 {
		return fmt.Errorf("%w: asset ownership %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	var err error
	if err = dec.Read(a.PublicKey[:]); err != nil {
		return err
	}
	if a.Type, err = dec.ReadUint8(); err != nil {
		return err
	}
	if a.Padding, err = dec.ReadUint8(); err != nil {
		return err
	}
	if a.ManagingContractIndex, err = dec.ReadUint16(); err != nil {
		return err
	}
	if a.IssuanceIndex, err = dec.ReadUint32(); err != nil {
		return err
	}
	if a.NumberOfUnits, err = dec.ReadInt64(); err != nil {
		return err
	}
	if a.Tick, err = dec.ReadUint32(); err != nil {
		return err
	}
	a.UniverseIndex, err = dec.ReadUint32()
	return err
}

type AssetPossession struct {
	PublicKey             crypto.Key `json:"public_key"`
	Type                  uint8      `json:"type"`
	Padding               uint8      `json:"-"`
	ManagingContractIndex uint16     `json:"managing_contract_index"`
	OwnershipIndex        uint32     `json:"ownership_index"`
	NumberOfUnits         int64      `json:"number_of_units"`
	Tick                  uint32     `json:"tick"`
	UniverseIndex         uint32     `json:"universe_index"`
}

func (a *AssetPossession) UnmarshalBinary(b []byte) error {
	if len(b) < issuedAssetDataSize+8 {
		return fmt.Errorf("%w: asset possession %d bytes", ErrMalformedMessage, len(b))
	}
	dec := NewDecoder(b)
	var err error
	if err = dec.Read(a.PublicKey[:]); err != nil {
		return err
	}
	if a.Type, err = dec.ReadUint8(); err != nil {
		return err
	}
	if a.Padding, err = dec.ReadUint8(); err != nil {
		return err
	}
	if a.ManagingContractIndex, err = dec.ReadUint16(); err != nil {
		return err
	}
	if a.OwnershipIndex, err = dec.ReadUint32(); err != nil {
		return err
	}
	if a.NumberOfUnits, err = dec.ReadInt64(); err != nil {
		return err
	}
	if a.Tick, err = dec.ReadUint32(); err != nil {
		return err
	}
	a.UniverseIndex, err = dec.ReadUint32()
	return err
}
