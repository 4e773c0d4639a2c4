package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with folio",
		Content: topicQuickstart,
	},
	{
		Name:    "config",
		Title:   "Configuration Reference",
		Summary: "Config file schema, fields, and defaults",
		Content: topicConfig,
	},
	{
		Name:    "content",
		Title:   "Content Modules",
		Summary: "File formats, namespaces, and keys",
		Content: topicContent,
	},
	{
		Name:    "resolution",
		Title:   "Topic Resolution",
		Summary: "Exact lookup, ancestor fallback, and not-found hints",
		Content: topicResolution,
	},
	{
		Name:    "integrity",
		Title:   "Integrity Checks",
		Summary: "What build and check reject, and cross-link validation",
		Content: topicIntegrity,
	},
	{
		Name:    "snapshot",
		Title:   "Registry Snapshots",
		Summary: "The .folio/registry.cbor file and how it is verified",
		Content: topicSnapshot,
	},
	{
		Name:    "serve",
		Title:   "MCP Server",
		Summary: "Serving the registry to MCP clients with live reload",
		Content: topicServe,
	},
}

const topicQuickstart = `Quick Start
===========

1. Initialize a project:

    cd your-docs
    folio init

   This creates .folio/config.yaml and a small content/ tree.

2. Put your topics under content/. Each directory is a namespace; each
   .yaml, .json, .jsonc or .html file is a content module.

3. Build and check:

    folio build

   The build is rejected if two modules define the same topic, a body is
   empty, a name uses characters outside [A-Za-z0-9_-], or a link points
   at a topic that does not exist.

4. Look topics up:

    folio resolve temas/cicd/herramientas-cicd
    folio list temas

CLI
---

  folio init                     Scaffold a project
  folio build [--snapshot PATH]  Build, check, and write a snapshot
  folio check [--json]           Build and print the integrity report
  folio check --snapshot PATH    Check a previously written snapshot
  folio resolve <ref>            Print a topic body
  folio list [namespace]         List topics and child namespaces
  folio serve                    MCP server over stdio with live reload
  folio docs [topic]             This help

Global flags: --config PATH, --log-level, --log-format.
`

const topicConfig = `Configuration Reference
=======================

folio looks for .folio/config.yaml in the current directory and each
parent until it finds one. --config overrides the search.

  name: php-curriculum        # required; [A-Za-z0-9][A-Za-z0-9_.-]*
  content-dir: contenido      # default: content
  ignore: ["drafts", "*.bak"] # globs matched against names and paths
  workers: 4                  # parse/build concurrency; default NumCPU (max 8)
  parallel: false             # use the parallel builder
  strict: false               # treat warnings as errors
  links:
    prefix: "#/"              # href prefix that marks a topic link
  snapshot: .folio/registry.cbor  # written by build; empty disables
  watch:
    max-interval: 60          # seconds between polls, upper bound
  log:
    level: info               # debug, info, warn, error
    format: text              # text or json

Relative paths are resolved against the project root (the directory that
contains .folio/).
`

const topicContent = `Content Modules
===============

A content module is one file. Its namespace is the directory it sits in,
relative to content-dir; files at the top level are in the root namespace.

YAML and JSON/JSONC modules are either a flat map of key to body:

    herramientas-cicd: |
      <h1>Herramientas CI/CD</h1>

or a descriptor that names its namespace explicitly:

    namespace: temas/cicd
    entries:
      herramientas-cicd: <h1>Herramientas CI/CD</h1>

JSONC allows comments and trailing commas. Every body must be a string.

An .html or .htm file is a single topic: the key is the file name without
its extension and the body is the file.

Keys and namespace segments use [A-Za-z0-9_-]. Keys are case-sensitive.
The same key may appear in different namespaces; within one namespace it
must be unique across all modules. A key may not also be the name of a
namespace next to it: "temas/cicd" cannot be both a topic and a directory
of topics.
`

const topicResolution = `Topic Resolution
================

A reference is a namespace plus a key, written with slashes:

    temas/cicd/herramientas-cicd

Lookup tries the exact namespace first, then each ancestor up to the
root. The first match wins, so a topic defined in "temas" is visible from
"temas/cicd" unless "temas/cicd" defines its own.

When nothing matches, folio reports:

  - the nearest namespace that exists on the requested path;
  - a suggestion, if a key in the requested namespace is within two edits
    of what was asked for.

A suggestion is only a hint. It is never returned as content.
`

const topicIntegrity = `Integrity Checks
================

Every build runs through:

  gathering -> building -> validating -> published | rejected

The builder rejects duplicate (namespace, key) pairs, naming both source
files; empty or whitespace-only bodies; names outside [A-Za-z0-9_-]; and
keys that collide with a namespace. It reports every problem it finds in
one pass.

The checker then re-validates the built registry and scans bodies for
cross-links:

    <a href="#/temas/cicd/herramientas-cicd">...</a>
    <span data-topic="hooks"></span>

A link without a slash is relative to the topic's own namespace.

  link resolves exactly          ok
  link resolves by fallback      warning
  link does not resolve          error
  keys differing only by case    warning

strict: true turns warnings into errors. folio check --json prints one
record per finding with severity, namespace, key, sourceRef and message,
and exits non-zero when any error is present.
`

const topicSnapshot = `Registry Snapshots
==================

folio build writes the published registry to the snapshot path
(.folio/registry.cbor by default). The file is CBOR with deterministic
encoding: the same content always produces the same bytes.

A snapshot records a fingerprint of its entries and is rejected on load if
the entries do not match it. Loading bypasses the builder, so
folio check --snapshot PATH always runs the integrity checker on it.

Snapshots are written to a temporary file and renamed into place, so a
reader never sees a partial file.
`

const topicServe = `MCP Server
==========

folio serve builds the registry and serves it over stdio to MCP clients.
Tools:

  resolve_topic      {namespace?, key} or {ref}
  list_topics        {namespace?}
  check_registry     {}
  registry_info      {}
  rebuild_registry   {}

The content directory is polled for changes (every second, plus a second
per 500 files, up to watch.max-interval). A change triggers a rebuild;
the served registry is replaced only when the rebuild is published. A
rejected rebuild is logged and the previous registry keeps serving.

Logs go to stderr so they do not interfere with the protocol on stdout.
`
