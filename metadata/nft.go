// Package metadata uploads NFT images and JSON documents off chain.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
)

const CONTENT_TYPE_JSON = "application/json"

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type File struct {
	Type string `json:"type"`
	Uri  string `json:"uri"`
}

type Properties struct {
	Files    []File `json:"files"`
	Category string `json:"category,omitempty"`
}

type Creator struct {
	Address string `json:"address"`
	Share   uint8  `json:"share"`
}

// NFT is the off-chain JSON document referenced by a metadata account's uri.
type NFT struct {
	Name                 string      `json:"name"`
	Symbol               string      `json:"symbol"`
	Description          string      `json:"description"`
	Image                string      `json:"image"`
	ExternalUrl          string      `json:"external_url,omitempty"`
	SellerFeeBasisPoints uint16      `json:"seller_fee_basis_points,omitempty"`
	Attributes           []Attribute `json:"attributes"`
	Properties           Properties  `json:"properties"`
	Creators             []Creator   `json:"creators"`
}

// NewNFT fills the image into both the image field and the file list.
func NewNFT(name, symbol, description, image, imageType string) *NFT {
	return &NFT{
		Name:        name,
		Symbol:      symbol,
		Description: description,
		Image:       image,
		Attributes:  []Attribute{},
		Properties: Properties{
			Files: []File{{Type: imageType, Uri: image}},
		},
		Creators: []Creator{},
	}
}

func (n *NFT) Check() error {
	if len(n.Name) == 0 {
		return errors.New("no name")
	}
	if len(n.Image) == 0 {
		return errors.New("no image")
	}
	return nil
}

type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (uri string, err error)
}

func UploadJSON(ctx context.Context, uploader Uploader, v interface{}) (string, error) {
	if uploader == nil {
		return "", errors.New("no uploader")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return uploader.Upload(ctx, data, CONTENT_TYPE_JSON)
}
