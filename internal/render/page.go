package render

const pageTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { margin: 0; font-family: sans-serif; background: #111; color: #eee; }
body.modal-open { overflow: hidden; }
header { padding: 1rem; display: flex; flex-wrap: wrap; gap: .5rem; align-items: center; }
#searchInput { flex: 1; min-width: 12rem; padding: .5rem; }
#filterTags { padding: 0 1rem; display: flex; flex-wrap: wrap; gap: .25rem; }
.filter-tag { border: 1px solid #555; background: none; color: inherit; border-radius: 1rem; padding: .25rem .75rem; cursor: pointer; }
.filter-tag.active { background: #eee; color: #111; }
#searchStatus { padding: 0 1rem; min-height: 1.5rem; color: #aaa; }
#gallery { display: grid; grid-template-columns: repeat(auto-fill, minmax(220px, 1fr)); gap: .5rem; padding: 1rem; }
.photo-item { position: relative; aspect-ratio: 1; overflow: hidden; background: #222; cursor: pointer; opacity: 0; transition: opacity .3s; }
.photo-item.visible { opacity: 1; }
.photo-item img { width: 100%; height: 100%; object-fit: cover; }
.photo-overlay { position: absolute; inset: auto 0 0 0; padding: .5rem; background: linear-gradient(transparent, rgba(0,0,0,.8)); font-size: .85rem; }
.image-placeholder, .empty-state, .error-state { display: flex; flex-direction: column; align-items: center; justify-content: center; height: 100%; color: #888; grid-column: 1 / -1; }
.error-state { color: #f88; }
#modal { display: none; position: fixed; inset: 0; background: rgba(0,0,0,.9); align-items: center; justify-content: center; }
#modal.open { display: flex; }
#modalContent { max-width: 90vw; max-height: 90vh; text-align: center; }
#modalImage { max-width: 90vw; max-height: 75vh; }
#modalCaption { margin-top: .5rem; }
.load-error { color: #f88; }
</style>
</head>
<body data-manifest="{{.ManifestPath}}" data-image-root="{{.ImageRoot}}" data-thumbnail-dir="{{.ThumbnailDir}}" data-thumbnail-ext="{{.ThumbnailExt}}" data-tag-separator="{{.TagSeparator}}" data-batch-size="{{.BatchSize}}"{{if .PreferUTF8}} data-prefer-utf8="true"{{end}}{{if .SampleFallback}} data-sample-fallback="true"{{end}}{{with .EventsPath}} data-events="{{.}}"{{end}}>
<header>
<input id="searchInput" type="search" placeholder="Search photos">
<button id="searchButton" type="button">Search</button>
<button id="clearButton" type="button">Clear</button>
</header>
<div id="filterTags"></div>
<div id="searchStatus"></div>
<main id="gallery"></main>
<div id="modal">
<div id="modalContent">
<img id="modalImage" alt="">
<div id="modalCaption"></div>
<button id="prevButton" type="button">&larr;</button>
<button id="closeButton" type="button">&times;</button>
<button id="nextButton" type="button">&rarr;</button>
</div>
</div>
<script src="{{.WasmExecPath}}"></script>
<script>
const go = new Go();
WebAssembly.instantiateStreaming(fetch({{.WasmPath}}), go.importObject).then((r) => go.run(r.instance));
</script>
</body>
</html>
{{end}}`
