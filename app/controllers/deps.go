package controllers

import (
	"github.com/pixora-app/pixora/internal/pkg/editor"
	"github.com/pixora-app/pixora/internal/pkg/provider"
	"github.com/pixora-app/pixora/internal/pkg/uploader"
)

var (
	uploadPipeline *uploader.Pipeline
	providerCfg    *provider.Config
	editorManager  *editor.Manager
)

// Setup injects the shared services the controllers depend on. Called once
// during application bootstrap, before the router is installed.
func Setup(pipeline *uploader.Pipeline, cfg *provider.Config, manager *editor.Manager) {
	uploadPipeline = pipeline
	providerCfg = cfg
	editorManager = manager
}
