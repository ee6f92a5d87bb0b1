package cli

// Export internal functions for testing.

// RunRewrite exports runRewrite for testing.
var RunRewrite = runRewrite

// ParseRewriteOptions exports parseRewriteOptions for testing.
var ParseRewriteOptions = parseRewriteOptions

// RewriteOptions exports rewriteOptions for testing.
type RewriteOptions = rewriteOptions

// RunTemplates exports runTemplates for testing.
var RunTemplates = runTemplates

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// IsValidConfigKey exports isValidConfigKey for testing.
var IsValidConfigKey = isValidConfigKey

// ValidConfigKeys exports validConfigKeys for testing.
var ValidConfigKeys = validConfigKeys

// SupportedExtensionsList exports supportedExtensionsList for testing.
var SupportedExtensionsList = supportedExtensionsList

// VariantPath exports variantPath for testing.
var VariantPath = variantPath

// WriteFileAtomic exports writeFileAtomic for testing.
var WriteFileAtomic = writeFileAtomic

// RenderProgress exports renderProgress for testing.
var RenderProgress = renderProgress

// DefaultVariantCount exports defaultVariantCount for testing.
const DefaultVariantCount = defaultVariantCount
