package spec

import (
	"encoding/json"

	"github.com/zintix-labs/permlab/errs"
	"gopkg.in/yaml.v3"
)

// GetTestSettingByYAML
// 會讀取 YAML 設定、填入預設值並執行基本檢查後回傳。
func GetTestSettingByYAML(data []byte) (*TestSetting, error) {
	ts := &TestSetting{}
	if err := yaml.Unmarshal(data, ts); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := ts.init(); err != nil {
		return nil, errs.Wrap(err, "test setting initialized err")
	}

	return ts, nil
}

// GetTestSettingByJSON
// 會讀取 Json 設定、填入預設值並執行基本檢查後回傳。
func GetTestSettingByJSON(data []byte) (*TestSetting, error) {
	ts := &TestSetting{}
	if err := json.Unmarshal(data, ts); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := ts.init(); err != nil {
		return nil, errs.Wrap(err, "test setting initialized err")
	}

	return ts, nil
}
