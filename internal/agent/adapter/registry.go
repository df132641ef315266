package adapter

// All returns the full tool roster for the given dependencies. execute_code
// is only included when the config allows it; the Rodin job tools are only
// included when a Rodin backend is configured.
func All(deps *Deps) []Tool {
	tools := []Tool{
		NewGetSceneInfo(deps),
		NewCreateObject(deps),
		NewModifyObject(deps),
		NewDeleteObject(deps),
		NewGetObjectInfo(deps),
		NewSetMaterial(deps),
		NewRenderScene(deps),
		NewGetPolyhavenStatus(deps),
		NewGetPolyhavenCategories(deps),
		NewSearchPolyhavenAssets(deps),
		NewDownloadPolyhavenAsset(deps),
		NewSetTexture(deps),
		NewGetHyper3DStatus(deps),
		NewGenerate3DModel(deps),
	}

	if deps.Config != nil && deps.Config.Blender.AllowCodeExecution {
		tools = append(tools, NewExecuteCode(deps))
	}
	if deps.Rodin != nil {
		tools = append(tools,
			NewGenerateRodinModel(deps),
			NewPollRodinJobStatus(deps),
			NewImportGeneratedAsset(deps),
		)
	}

	return tools
}
