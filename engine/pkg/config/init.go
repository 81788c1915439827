package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/njtc406/emberqueue/engine/pkg/def"
	"github.com/njtc406/emberqueue/engine/pkg/utils/validate"
	"github.com/njtc406/viper"
)

const (
	Debug   = def.Debug
	Release = def.Release
)

var (
	runtimeViper = viper.New()
	Conf         = new(conf)
)

const nodeConfName = "node"

// Init 解析节点配置,EMBER_CONF_PATH优先于传入的路径
func Init(confPath string) {
	fmt.Println("=============开始解析配置===================")
	if err := Load(confPath); err != nil {
		panic(err)
	}
	initDir()
	fmt.Println("=============配置解析完成===================")
}

// Load 读取并校验配置,结果写入Conf
func Load(confPath string) error {
	if envConfPath := os.Getenv("EMBER_CONF_PATH"); envConfPath != "" {
		confPath = envConfPath
	}
	if confPath == "" {
		confPath = def.DefaultConfPath
	}

	parser := viper.New()
	parser.SetConfigType("yaml")
	parser.SetConfigName(nodeConfName)
	parser.AddConfigPath(confPath)

	// 环境变量只补充配置文件中没有的项
	parser.SetEnvPrefix("EMBER")
	parser.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	parser.AutomaticEnv()

	setDefaultValues(parser)

	if err := parser.ReadInConfig(); err != nil {
		return fmt.Errorf("read node config from %s: %w", confPath, err)
	}

	c := new(conf)
	if err := parser.Unmarshal(c); err != nil {
		return fmt.Errorf("unmarshal node config: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return validate.TransError(err, validate.ZH)
	}

	runtimeViper = parser
	Conf = c
	return nil
}

func initDir() {
	createDirIfNotExists(Conf.SystemLogger.Path)
}

func createDirIfNotExists(dir string) {
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(err)
	}
}

func setDefaultValues(parser *viper.Viper) {
	parser.SetDefault("NodeConf.SystemStatus", Debug)
	parser.SetDefault("NodeConf.AntsPoolSize", def.DefaultAntsPoolSize)

	parser.SetDefault("SystemLogger.Path", def.DefaultLogPath)
	parser.SetDefault("SystemLogger.Name", "system")
	parser.SetDefault("SystemLogger.Level", "error")
	parser.SetDefault("SystemLogger.Caller", true)
	parser.SetDefault("SystemLogger.MaxAge", time.Hour*24*15)
	parser.SetDefault("SystemLogger.RotationTime", time.Hour*24)

	parser.SetDefault("WorkerConf.WorkerNum", def.DefaultWorkerNum)
	parser.SetDefault("WorkerConf.VirtualWorkerRate", def.DefaultVirtualWorkerRate)
	parser.SetDefault("WorkerConf.MailboxSize", def.DefaultMailboxSize)
	parser.SetDefault("WorkerConf.DedupTTL", def.DefaultDeDuplicatorTTL)
	parser.SetDefault("WorkerConf.DedupCleanTTL", def.DefaultDeDuplicatorCleanTTL)
}

// GetViper 返回最近一次成功加载的解析器
func GetViper() *viper.Viper {
	return runtimeViper
}
