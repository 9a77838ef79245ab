package buildspec

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// hclFile is the HCL schema for a build definition:
//
//	mode = "development"
//
//	entry "main" {
//	  path = "./src/index.js"
//	}
//
//	output {
//	  filename = "[name].[contentHash].bundle.js"
//	  path     = "dist"
//	}
//
//	rule {
//	  test = "\\.css$"
//	  use  = ["style-loader", "css-loader"]
//	}
//
//	plugin "GenerateHtml" {
//	  options = { title = "App" }
//	}
type hclFile struct {
	Mode      string        `hcl:"mode,optional"`
	SourceMap string        `hcl:"source_map,optional"`
	Entries   []hclEntry    `hcl:"entry,block"`
	Output    *hclOutput    `hcl:"output,block"`
	Rules     []hclRule     `hcl:"rule,block"`
	Plugins   []hclPlugin   `hcl:"plugin,block"`
	DevServer *hclDevServer `hcl:"dev_server,block"`
}

type hclEntry struct {
	Name string `hcl:"name,label"`
	Path string `hcl:"path"`
}

type hclOutput struct {
	Filename    string   `hcl:"filename"`
	Path        string   `hcl:"path"`
	Precompress []string `hcl:"precompress,optional"`
}

type hclRule struct {
	Test string   `hcl:"test"`
	Use  []string `hcl:"use"`
}

type hclPlugin struct {
	Kind    string            `hcl:"kind,label"`
	Options map[string]string `hcl:"options,optional"`
}

type hclDevServer struct {
	ContentBase string `hcl:"content_base"`
	Hot         bool   `hcl:"hot,optional"`
	Host        string `hcl:"host,optional"`
	Port        int    `hcl:"port,optional"`
}

func decodeHCL(filename string, src []byte) (RawConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return RawConfig{}, diags
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return RawConfig{}, diags
	}

	raw := RawConfig{
		Mode:      parsed.Mode,
		SourceMap: parsed.SourceMap,
	}
	for _, e := range parsed.Entries {
		raw.Entry = append(raw.Entry, RawEntry(e))
	}
	if parsed.Output != nil {
		raw.Output = RawOutput(*parsed.Output)
	}
	for _, r := range parsed.Rules {
		raw.Rules = append(raw.Rules, RawRule{Test: r.Test, Use: r.Use})
	}
	for _, p := range parsed.Plugins {
		raw.Plugins = append(raw.Plugins, RawPlugin(p))
	}
	if parsed.DevServer != nil {
		ds := RawDevServer(*parsed.DevServer)
		raw.DevServer = &ds
	}

	return raw, nil
}

func encodeHCL(raw RawConfig) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	setString(body, "mode", raw.Mode)
	setString(body, "source_map", raw.SourceMap)

	for _, e := range raw.Entry {
		body.AppendNewline()
		blk := body.AppendNewBlock("entry", []string{e.Name})
		blk.Body().SetAttributeValue("path", cty.StringVal(e.Path))
	}

	body.AppendNewline()
	out := body.AppendNewBlock("output", nil).Body()
	out.SetAttributeValue("filename", cty.StringVal(raw.Output.Filename))
	out.SetAttributeValue("path", cty.StringVal(raw.Output.Path))
	setList(out, "precompress", raw.Output.Precompress)

	for _, r := range raw.Rules {
		body.AppendNewline()
		rb := body.AppendNewBlock("rule", nil).Body()
		rb.SetAttributeValue("test", cty.StringVal(r.Test))
		setList(rb, "use", r.Use)
	}

	for _, p := range raw.Plugins {
		body.AppendNewline()
		pb := body.AppendNewBlock("plugin", []string{p.Kind}).Body()
		if len(p.Options) > 0 {
			opts := make(map[string]cty.Value, len(p.Options))
			for k, v := range p.Options {
				opts[k] = cty.StringVal(v)
			}
			pb.SetAttributeValue("options", cty.MapVal(opts))
		}
	}

	if ds := raw.DevServer; ds != nil {
		body.AppendNewline()
		db := body.AppendNewBlock("dev_server", nil).Body()
		db.SetAttributeValue("content_base", cty.StringVal(ds.ContentBase))
		if ds.Hot {
			db.SetAttributeValue("hot", cty.True)
		}
		setString(db, "host", ds.Host)
		if ds.Port != 0 {
			db.SetAttributeValue("port", cty.NumberIntVal(int64(ds.Port)))
		}
	}

	return f.Bytes()
}

func setString(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}

func setList(body *hclwrite.Body, name string, values []string) {
	if len(values) == 0 {
		return
	}
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.StringVal(v)
	}
	body.SetAttributeValue(name, cty.ListVal(vals))
}
