// Package liaoxuefeng implements providers.Site for the liaoxuefeng.com
// wiki layout: the chapter list lives in the second ".uk-nav-side" menu and
// each chapter's text in the first ".x-wiki-content" block.
package liaoxuefeng
