package help

const QuickstartYAML = `# blogger2hugo Quick Start

getting_the_archive:
  - "Blogger dashboard -> Settings -> Manage blog -> Back up content"
  - "The download is a single Atom XML file with every post, page, and comment"

commands:
  basic_convert: |
    blogger2hugo convert blog-export.atom

  into_a_hugo_site: |
    blogger2hugo convert blog-export.atom my-site/content

  with_enrichment: |
    blogger2hugo convert blog-export.atom --describe --detect-language

  slow_image_hosts: |
    blogger2hugo convert blog-export.atom --timeout 30s --workers 2

  preview_a_post: |
    blogger2hugo preview content/posts/hello-world

  list_runs: |
    blogger2hugo db runs

  run_details: |
    blogger2hugo db run 3

output_layout:
  - "content/posts/<slug>/index.md (front matter + markdown body)"
  - "content/posts/<slug>/images/<name> (downloaded images)"
  - "Old Blogger URLs land in the aliases front-matter key, so Hugo redirects them"

conversion_invariants:
  - "Drafts convert too, with draft: true in front matter"
  - "Same image referenced twice in a post = one download, one file"
  - "An image that fails to download keeps its remote URL in the markdown"
  - "Two posts with the same slug: the second becomes <slug>-2, then -3, ..."
  - "Tables with merged cells stay as raw HTML (Hugo renders them fine)"
  - "Re-running over the same archive produces the same tree"

run_history:
  - "Each convert run is recorded in SQLite next to the binary"
  - "Use --db to put the database elsewhere, --no-history to skip recording"
  - "db runs lists history; db run <id> shows per-post and per-image outcomes"

hugo_setup:
  - "Bundles are page bundles: no extra Hugo configuration needed"
  - "Aliases need the default Hugo alias handling (enabled out of the box)"`
