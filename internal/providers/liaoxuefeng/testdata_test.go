package liaoxuefeng

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/tocpdf/internal/fetch"
	"github.com/brogergvhs/tocpdf/internal/source"
)

const menuPage = `<!DOCTYPE html>
<html><head><title>Git</title></head>
<body>
<ul class="uk-nav uk-nav-side"><li><a href="/">Home</a></li></ul>
<ul class="uk-nav uk-nav-side">
  <li><a href="/wiki/git/001">Git简介</a></li>
  <li><a href="http://mirror.example.org/wiki/git/002">安装Git</a>
    <ul><li><a href="/wiki/git/003">创建版本库</a></li></ul>
  </li>
  <li><span>no link</span></li>
  <li><a href="/wiki/git/004">时光机穿梭</a></li>
</ul>
</body></html>`

const chapterPage = `<!DOCTYPE html>
<html><head>
<meta charset="utf-8">
<link rel="icon" href="/favicon.ico">
<link rel="stylesheet" href="/static/css/uikit.min.css">
<link rel="stylesheet" href="/static/css/uikit.gradient.min.css">
<link rel="stylesheet" href="http://cdn.example.org/itranswarp.css">
</head>
<body>
<h4>创建版本库</h4>
<div class="x-wiki-content">
<p>什么是版本库呢？</p>
<img src="/files/attachments/001/0">
<video src="/v/intro.mp4"><source src="/v/intro.webm"></video>
<p><img alt="remote" src="http://cdn.example.org/a.png?x=1&amp;y=2"></p>
<div><video></video><video></video></div>
<img class="wide" src="files/relative.png">
</div>
<div class="x-wiki-content"><p>second block</p></div>
</body></html>`

func newTestSite(t *testing.T) *Site {
	t.Helper()

	src, err := source.New("lxf-git", "https://www.liaoxuefeng.com/wiki/git")
	require.NoError(t, err)

	return New(src, nil)
}

func response(url, body string) *fetch.Response {
	return &fetch.Response{URL: url, StatusCode: 200, Body: []byte(body)}
}
