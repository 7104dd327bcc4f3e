package main

import (
	"encoding/json"
	"strings"

	"github.com/mattermost/mattermost-server/v6/model"
)

var manifest *model.Manifest

const manifestStr = `
{
  "id": "com.github.ericzzh.mattermost-plugin-purge",
  "name": "Purge",
  "description": "Delete the recent posts of a user in every channel.",
  "version": "0.1.0",
  "min_server_version": "6.2.1",
  "server": {
    "executable": ""
  },
  "settings_schema": {
    "header": "",
    "footer": "",
    "settings": [
      {
        "key": "PurgeRole",
        "display_name": "Purge role",
        "type": "text",
        "help_text": "Role allowed to run /purge besides system admins.",
        "default": ""
      },
      {
        "key": "Tuning",
        "display_name": "Tuning",
        "type": "longtext",
        "help_text": "YAML tuning of the retention window, the backfill and the purge throttling.",
        "default": ""
      }
    ]
  }
}
`

func init() {
	_ = json.NewDecoder(strings.NewReader(manifestStr)).Decode(&manifest)
}
