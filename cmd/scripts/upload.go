package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/solpipe/solpipe-scripts/metadata"
)

type UploadImage struct {
	File string `name:"file" short:"f" required:"" help:"the image file"`
}

func (r *UploadImage) Run(kongCtx *CLIContext) error {
	data, err := os.ReadFile(r.File)
	if err != nil {
		return err
	}
	uploader, err := metadata.FromConfig(kongCtx.Clients.Config.Uploader, nil)
	if err != nil {
		return err
	}
	contentType := metadata.ContentType(r.File, data)
	uri, err := run(kongCtx, "upload-image", func(ctx context.Context) (string, error) {
		return uploader.Upload(ctx, data, contentType)
	})
	if err != nil {
		return err
	}
	os.Stdout.WriteString(fmt.Sprintf("Your image URI: %s\n", uri))
	return nil
}

type UploadMetadata struct {
	File        string            `name:"file" short:"f" help:"a metadata JSON document; overrides the other flags"`
	Name        string            `name:"name"`
	Symbol      string            `name:"symbol"`
	Description string            `name:"description"`
	Image       string            `name:"image" help:"the image uri"`
	ImageType   string            `name:"image-type" default:"image/png"`
	Attributes  map[string]string `name:"attribute" help:"trait=value, may repeat"`
}

func (r *UploadMetadata) nft() (*metadata.NFT, error) {
	if 0 < len(r.File) {
		data, err := os.ReadFile(r.File)
		if err != nil {
			return nil, err
		}
		nft := new(metadata.NFT)
		if err = json.Unmarshal(data, nft); err != nil {
			return nil, fmt.Errorf("%s: %w", r.File, err)
		}
		return nft, nft.Check()
	}
	nft := metadata.NewNFT(r.Name, r.Symbol, r.Description, r.Image, r.ImageType)
	traits := make([]string, 0, len(r.Attributes))
	for k := range r.Attributes {
		traits = append(traits, k)
	}
	sort.Strings(traits)
	for _, k := range traits {
		nft.Attributes = append(nft.Attributes, metadata.Attribute{TraitType: k, Value: r.Attributes[k]})
	}
	return nft, nft.Check()
}

func (r *UploadMetadata) Run(kongCtx *CLIContext) error {
	nft, err := r.nft()
	if err != nil {
		return err
	}
	uploader, err := metadata.FromConfig(kongCtx.Clients.Config.Uploader, nil)
	if err != nil {
		return err
	}
	uri, err := run(kongCtx, "upload-metadata", func(ctx context.Context) (string, error) {
		return metadata.UploadJSON(ctx, uploader, nft)
	})
	if err != nil {
		return err
	}
	os.Stdout.WriteString(fmt.Sprintf("Your metadata URI: %s\n", uri))
	return nil
}
