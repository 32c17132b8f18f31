package client

import (
	"fmt"

	"github.com/friendwu/qubicly/crypto"
	"github.com/friendwu/qubicly/protocol"
)

// QueryAssetIssuances searches the universe for issuance records. An
// empty issuer or asset name widens the search to any.
func (c *Client) QueryAssetIssuances(issuer crypto.Identity, assetName string) ([]*protocol.AssetIssuance, error) {
	req := protocol.AssetsByFilterRequest{RequestType: protocol.AssetIssuanceRecords}
	var err error
	if req.Flags, req.Issuer, err = issuerFilter(issuer); err != nil {
		return nil, err
	}
	if assetName == "" {
		req.Flags |= protocol.FlagAnyAssetName
	} else if req.AssetName, err = protocol.EncodeAssetName(assetName); err != nil {
		return nil, err
	}
	bodies, err := c.queryAssets(req)
	if err != nil {
		return nil, err
	}
	records := make([]*protocol.AssetIssuance, 0, len(bodies))
	for _, b := range bodies {
		var rec protocol.AssetIssuance
		if err := rec.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, nil
}

// QueryAssetOwnerships searches the universe for ownership records of
// one named asset. Owner and managing contract widen to any when left
// empty or zero.
func (c *Client) QueryAssetOwnerships(issuer crypto.Identity, assetName string, owner crypto.Identity, ownerContract uint16) ([]*protocol.AssetOwnership, error) {
	req := protocol.AssetsByFilterRequest{RequestType: protocol.AssetOwnershipRecords}
	if err := c.fillOwnershipFilter(&req, issuer, assetName, owner, ownerContract); err != nil {
		return nil, err
	}
	bodies, err := c.queryAssets(req)
	if err != nil {
		return nil, err
	}
	records := make([]*protocol.AssetOwnership, 0, len(bodies))
	for _, b := range bodies {
		var rec protocol.AssetOwnership
		if err := rec.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, nil
}

// QueryAssetPossessions searches the universe for possession records of
// one named asset.
func (c *Client) QueryAssetPossessions(issuer crypto.Identity, assetName string, owner crypto.Identity, ownerContract uint16, possessor crypto.Identity, possessorContract uint16) ([]*protocol.AssetPossession, error) {
	req := protocol.AssetsByFilterRequest{RequestType: protocol.AssetPossessionRecords}
	if err := c.fillOwnershipFilter(&req, issuer, assetName, owner, ownerContract); err != nil {
		return nil, err
	}
	if possessor == "" {
		req.Flags |= protocol.FlagAnyPossessor
	} else {
		pub, err := possessor.PubKey()
		if err != nil {
			return nil, err
		}
		req.Possessor = pub
	}
	if possessorContract == 0 {
		req.Flags |= protocol.FlagAnyPossessorContract
	} else {
		req.PossessionManagingContract = possessorContract
	}
	bodies, err := c.queryAssets(req)
	if err != nil {
		return nil, err
	}
	records := make([]*protocol.AssetPossession, 0, len(bodies))
	for _, b := range bodies {
		var rec protocol.AssetPossession
		if err := rec.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, nil
}

// QueryAssetsByUniverseIndex fetches the raw universe records at one
// index. The record kind depends on what lives there, so bodies stay
// undecoded.
func (c *Client) QueryAssetsByUniverseIndex(index uint32) ([][]byte, error) {
	reqBody, err := protocol.AssetsByUniverseIndexRequest{UniverseIndex: index}.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return c.roundTripStream(protocol.AssetsRequest, reqBody, protocol.AssetsResponse)
}

func (c *Client) queryAssets(req protocol.AssetsByFilterRequest) ([][]byte, error) {
	reqBody, err := req.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return c.roundTripStream(protocol.AssetsRequest, reqBody, protocol.AssetsResponse)
}

func (c *Client) fillOwnershipFilter(req *protocol.AssetsByFilterRequest, issuer crypto.Identity, assetName string, owner crypto.Identity, ownerContract uint16) error {
	var err error
	// An empty issuer here matches the zero key exactly; only the
	// issuance query widens it to any issuer.
	if issuer != "" {
		if req.Issuer, err = issuer.PubKey(); err != nil {
			return err
		}
	}
	if assetName == "" {
		return fmt.Errorf("%w: ownership queries need an asset name", protocol.ErrPrecondition)
	}
	if req.AssetName, err = protocol.EncodeAssetName(assetName); err != nil {
		return err
	}
	if owner == "" {
		req.Flags |= protocol.FlagAnyOwner
	} else {
		pub, err := owner.PubKey()
		if err != nil {
			return err
		}
		req.Owner = pub
	}
	if ownerContract == 0 {
		req.Flags |= protocol.FlagAnyOwnerContract
	} else {
		req.OwnershipManagingContract = ownerContract
	}
	return nil
}

func issuerFilter(issuer crypto.Identity) (uint16, crypto.Key, error) {
	if issuer == "" {
		return protocol.FlagAnyIssuer, crypto.Key{}, nil
	}
	pub, err := issuer.PubKey()
	if err != nil {
		return 0, crypto.Key{}, err
	}
	return 0, pub, nil
}
