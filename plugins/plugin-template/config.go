package plugintemplate

import (
	"time"

	"github.com/Hafuunano/Plugin-Template/lib/config"
)

// KeywordEntry is one row of a keyword table in config.yaml. Value is a
// resource path for image and file tables, literal text for the text table.
type KeywordEntry struct {
	Keyword string `yaml:"keyword"`
	Value   string `yaml:"value"`
}

// Config is data/config/plugin-template/config.yaml.
type Config struct {
	Debug           bool          `yaml:"debug" env:"TEMPLATE_DEBUG"`
	CommandPrefixes []string      `yaml:"command_prefixes" env:"TEMPLATE_COMMAND_PREFIXES"`
	HTTPTimeout     time.Duration `yaml:"http_timeout" env:"TEMPLATE_HTTP_TIMEOUT"`
	DogAPI          string        `yaml:"dog_api" env:"TEMPLATE_DOG_API"`
	AgeAPI          string        `yaml:"age_api" env:"TEMPLATE_AGE_API"`
	// ResourceDir replaces the embedded res/ directory when set.
	ResourceDir string `yaml:"resource_dir" env:"TEMPLATE_RES_DIR"`
	// Whitelist restricts commands to groups in the whitelist middleware config.
	Whitelist bool `yaml:"whitelist" env:"TEMPLATE_WHITELIST"`

	LocalImage   string         `yaml:"local_image"`
	FixedText    string         `yaml:"fixed_text"`
	ForwardImage string         `yaml:"forward_image"`
	ForwardTexts []string       `yaml:"forward_texts"`
	Images       []KeywordEntry `yaml:"images"`
	Files        []KeywordEntry `yaml:"files"`
	Texts        []KeywordEntry `yaml:"texts"`
}

// DefaultConfig is written to disk the first time the plugin starts.
func DefaultConfig() Config {
	return Config{
		CommandPrefixes: []string{"/"},
		HTTPTimeout:     10 * time.Second,
		DogAPI:          "https://dog.ceo/api/breeds/image/random",
		AgeAPI:          "https://zj.v.api.aa1.cn/api/Age-calculation/",
		LocalImage:      "104117310_p0.png",
		FixedText:       "这是一个固定的句子，自行编辑即可。",
		ForwardImage:    "pic/77470708_p5.png",
		ForwardTexts:    []string{"数组中的字符串1", "数组中的字符串2"},
		Images: []KeywordEntry{
			{Keyword: "图片1", Value: "pic/77470708_p5.png"},
			{Keyword: "图片2", Value: "pic/81274446_p0.png"},
			{Keyword: "图片3", Value: "pic/104117310_p0.png"},
		},
		Files: []KeywordEntry{
			{Keyword: "文件1", Value: "txt/1.txt"},
			{Keyword: "文件2", Value: "txt/2.txt"},
			{Keyword: "文件3", Value: "txt/3.txt"},
		},
		Texts: []KeywordEntry{
			{Keyword: "关键词1", Value: "这是一个普通的句子，123abc@#$"},
			{Keyword: "关键词2", Value: "链接：www.baidu.com"},
			{Keyword: "关键词3", Value: "随机发病语录：https://github.com/Ikaros-521/nonebot_plugin_random_stereotypes"},
		},
	}
}

// LoadConfig reads the plugin config under dataDir, creating it with defaults when missing.
func LoadConfig(dataDir string) (Config, error) {
	cfg := DefaultConfig()
	if err := config.Load(config.DataDir(dataDir), pluginName, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
