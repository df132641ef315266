package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// assetTypes are the Poly Haven resource categories.
var assetTypes = []string{"hdris", "textures", "models", "all"}

// GetPolyhavenStatusRequest has no parameters.
type GetPolyhavenStatusRequest struct{}

// NewGetPolyhavenStatus creates a get_polyhaven_status adapter
func NewGetPolyhavenStatus(deps *Deps) Tool {
	return NewBaseAdapter(
		"get_polyhaven_status",
		"Checks whether the Poly Haven integration is enabled in the editor",
		&provider.ParameterSchema{
			Type:       "object",
			Properties: map[string]provider.PropertySchema{},
		},
		deps,
		func(ctx context.Context, d *Deps, _ GetPolyhavenStatusRequest) (json.RawMessage, error) {
			return d.Client.Send(ctx, "get_polyhaven_status", nil)
		},
	)
}

// GetPolyhavenCategoriesRequest lists categories for one asset type.
type GetPolyhavenCategoriesRequest struct {
	AssetType string `mapstructure:"asset_type"`
}

func (r GetPolyhavenCategoriesRequest) Validate() error {
	for _, known := range assetTypes {
		if r.AssetType == known {
			return nil
		}
	}
	return fmt.Errorf("unknown asset type %q", r.AssetType)
}

// NewGetPolyhavenCategories creates a get_polyhaven_categories adapter
func NewGetPolyhavenCategories(deps *Deps) Tool {
	return NewBaseAdapter(
		"get_polyhaven_categories",
		"Lists Poly Haven categories for the given asset type",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"asset_type": {
					Type:        "string",
					Description: "Asset type to list categories for",
					Enum:        assetTypes,
				},
			},
			Required: []string{"asset_type"},
		},
		deps,
		func(ctx context.Context, d *Deps, req GetPolyhavenCategoriesRequest) (json.RawMessage, error) {
			return d.Client.Send(ctx, "get_polyhaven_categories", map[string]any{"asset_type": req.AssetType})
		},
	)
}

// SearchPolyhavenAssetsRequest searches the asset library.
type SearchPolyhavenAssetsRequest struct {
	AssetType  string `mapstructure:"asset_type"`
	Categories string `mapstructure:"categories"`
}

// NewSearchPolyhavenAssets creates a search_polyhaven_assets adapter
func NewSearchPolyhavenAssets(deps *Deps) Tool {
	return NewBaseAdapter(
		"search_polyhaven_assets",
		"Searches the Poly Haven asset library",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"asset_type": {
					Type:        "string",
					Description: "Asset type filter (optional)",
					Enum:        assetTypes,
				},
				"categories": {
					Type:        "string",
					Description: "Comma-separated category filter (optional)",
				},
			},
		},
		deps,
		func(ctx context.Context, d *Deps, req SearchPolyhavenAssetsRequest) (json.RawMessage, error) {
			params := map[string]any{}
			if req.AssetType != "" {
				params["asset_type"] = req.AssetType
			}
			if req.Categories != "" {
				params["categories"] = req.Categories
			}
			return d.Client.Send(ctx, "search_polyhaven_assets", params)
		},
	)
}

// DownloadPolyhavenAssetRequest downloads and imports one asset.
type DownloadPolyhavenAssetRequest struct {
	AssetID    string `mapstructure:"asset_id"`
	AssetType  string `mapstructure:"asset_type"`
	Resolution string `mapstructure:"resolution"`
	FileFormat string `mapstructure:"file_format"`
}

func (r DownloadPolyhavenAssetRequest) Validate() error {
	if r.AssetID == "" {
		return fmt.Errorf("asset_id is required")
	}
	if r.AssetType == "" {
		return fmt.Errorf("asset_type is required")
	}
	return nil
}

// NewDownloadPolyhavenAsset creates a download_polyhaven_asset adapter
func NewDownloadPolyhavenAsset(deps *Deps) Tool {
	return NewBaseAdapter(
		"download_polyhaven_asset",
		"Downloads and imports the given Poly Haven asset into the scene",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"asset_id": {
					Type:        "string",
					Description: "Asset identifier",
				},
				"asset_type": {
					Type:        "string",
					Description: "Asset type",
					Enum:        []string{"hdris", "textures", "models"},
				},
				"resolution": {
					Type:        "string",
					Description: "Texture resolution (optional, defaults to 1k)",
				},
				"file_format": {
					Type:        "string",
					Description: "File format (optional, per-type default applies)",
				},
			},
			Required: []string{"asset_id", "asset_type"},
		},
		deps,
		func(ctx context.Context, d *Deps, req DownloadPolyhavenAssetRequest) (json.RawMessage, error) {
			params := map[string]any{
				"asset_id":   req.AssetID,
				"asset_type": req.AssetType,
			}
			if req.Resolution != "" {
				params["resolution"] = req.Resolution
			}
			if req.FileFormat != "" {
				params["file_format"] = req.FileFormat
			}
			return d.Client.Send(ctx, "download_polyhaven_asset", params)
		},
	)
}

// SetTextureRequest applies a downloaded texture to an object.
type SetTextureRequest struct {
	ObjectName string `mapstructure:"object_name"`
	TextureID  string `mapstructure:"texture_id"`
}

func (r SetTextureRequest) Validate() error {
	if r.ObjectName == "" {
		return fmt.Errorf("object_name is required")
	}
	if r.TextureID == "" {
		return fmt.Errorf("texture_id is required")
	}
	return nil
}

// NewSetTexture creates a set_texture adapter
func NewSetTexture(deps *Deps) Tool {
	return NewBaseAdapter(
		"set_texture",
		"Applies a previously downloaded Poly Haven texture to the named object",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"object_name": {
					Type:        "string",
					Description: "Name of the object to texture",
				},
				"texture_id": {
					Type:        "string",
					Description: "ID of the downloaded texture",
				},
			},
			Required: []string{"object_name", "texture_id"},
		},
		deps,
		func(ctx context.Context, d *Deps, req SetTextureRequest) (json.RawMessage, error) {
			return d.Client.Send(ctx, "set_texture", map[string]any{
				"object_name": req.ObjectName,
				"texture_id":  req.TextureID,
			})
		},
	)
}
